package respond

import (
	"regexp"
)

var (
	// api-key クエリパラメータ（URL エラーに含まれる）
	apiKeyQueryPattern = regexp.MustCompile(`(?i)(api[-_]key=)[^&\s"]+`)

	// データベースパスワードパターン（DSN内）
	dbPasswordPattern = regexp.MustCompile(`://([^:/@\s]+):([^@\s]+)@`)
)

// SanitizeError は機密情報をマスクしたエラーメッセージを返す
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	msg = apiKeyQueryPattern.ReplaceAllString(msg, "${1}****")
	msg = dbPasswordPattern.ReplaceAllString(msg, "://$1:****@")

	return msg
}
