package api

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/bizboost/workshop-registration/tracking"
)

// paymentReturn handles the browser coming back from the gateway-hosted
// checkout. It is a best-effort UX signal only: the webhook is the source of
// truth, and the webhook may not have arrived yet, so this forwards the
// outcome hint to the frontend regardless of payload shape and never touches
// registration state.
func (a *API) paymentReturn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := a.getLoggerOrBaseLogger(ctx)

	outcome := r.FormValue("status")
	registrationID := r.FormValue("registration")

	if registrationID != "" {
		err := a.tracker.Track(ctx, tracking.Event{
			Name:           tracking.EventReturnVisit,
			RegistrationID: registrationID,
			Properties: map[string]string{
				"outcome": outcome,
			},
		})
		if err != nil {
			logger.Warn("Failed to track checkout return visit",
				slog.String("error", err.Error()),
				slog.String("registration-id", registrationID),
			)
		}
	}

	redirect, err := url.Parse(a.cfg.FrontendReturnURL)
	if err != nil {
		logger.Error("Frontend return URL is not parseable", slog.String("error", err.Error()))
		http.Redirect(w, r, a.cfg.FrontendReturnURL, http.StatusSeeOther)
		return
	}

	q := redirect.Query()
	q.Set("status", outcome)
	q.Set("registration", registrationID)
	redirect.RawQuery = q.Encode()

	http.Redirect(w, r, redirect.String(), http.StatusSeeOther)
}
