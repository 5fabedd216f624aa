// Package feed serves rendered section feeds over HTTP.
package feed

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"guardian-rss/internal/domain/entity"
	"guardian-rss/internal/handler/http/respond"
	"guardian-rss/internal/observability/logging"
	feedUC "guardian-rss/internal/usecase/feed"
)

// User-facing error messages.
const (
	MsgInvalidSection = "Invalid section name format"
	MsgNotFound       = "The requested section does not exist"
	MsgAPIError       = "The Guardian API returned an error"
	MsgEmptyResults   = "No articles found for this section"
	MsgClientError    = "An error occurred while fetching data from The Guardian API"
	MsgConfiguration  = "The feed service is not configured correctly"
)

// ContentType is the media type of a rendered feed.
const ContentType = "application/rss+xml"

// CacheHeader reports whether the body came from the cache (HIT) or was rendered (MISS).
const CacheHeader = "X-Cache"

// Service is the part of the feed use case the handler depends on.
type Service interface {
	Handle(ctx context.Context, raw string) (*entity.FeedDocument, error)
}

// Handler serves GET /{section}.
type Handler struct {
	Svc    Service
	Logger *slog.Logger
}

// ServeHTTP セクションの RSS フィード取得
// @Summary      Section RSS feed
// @Description  Returns the latest articles of a Guardian section as an RSS 2.0 document. Feeds are cached for 10 minutes.
// @Tags         feeds
// @Produce      application/rss+xml
// @Produce      json
// @Param        section path string true "Section name (lowercase letters and hyphens)" example(business)
// @Success      200 {string} string "RSS 2.0 document" headers(X-Cache=string)
// @Failure      400 {object} respond.ErrorBody "Invalid section name format"
// @Failure      404 {object} respond.ErrorBody "Unknown section, API error or no articles"
// @Failure      500 {object} respond.ErrorBody "Upstream or internal failure"
// @Router       /{section} [get]
func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	raw := r.PathValue("section")

	doc, err := h.Svc.Handle(r.Context(), raw)
	if err != nil {
		respond.Fail(w, logging.WithRequestID(r.Context(), h.logger()), toAppError(err))
		return
	}

	cacheStatus := "MISS"
	if doc.FromCache {
		cacheStatus = "HIT"
	}

	w.Header().Set("Content-Type", ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Body)))
	w.Header().Set(CacheHeader, cacheStatus)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc.Body); err != nil {
		h.logger().Debug("feed: failed to write response", slog.Any("error", err))
	}
}

func (h Handler) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// toAppError maps a use case error onto its HTTP status and message.
func toAppError(err error) *respond.AppError {
	if errors.Is(err, entity.ErrInvalidSection) {
		return respond.NewAppError(http.StatusBadRequest, MsgInvalidSection, err)
	}

	var upErr *feedUC.UpstreamError
	if !errors.As(err, &upErr) {
		return respond.NewAppError(http.StatusInternalServerError, respond.UnexpectedMessage, err)
	}

	switch upErr.Kind {
	case feedUC.KindNotFound:
		return respond.NewAppError(http.StatusNotFound, MsgNotFound, err)
	case feedUC.KindAPIError:
		msg := upErr.Message
		if msg == "" {
			msg = MsgAPIError
		}
		return respond.NewAppError(http.StatusNotFound, msg, err)
	case feedUC.KindEmptyResults:
		return respond.NewAppError(http.StatusNotFound, MsgEmptyResults, err)
	case feedUC.KindClientError:
		return respond.NewAppError(http.StatusInternalServerError, MsgClientError, err)
	case feedUC.KindConfiguration:
		return respond.NewAppError(http.StatusInternalServerError, MsgConfiguration, err)
	default:
		return respond.NewAppError(http.StatusInternalServerError, respond.UnexpectedMessage, err)
	}
}
