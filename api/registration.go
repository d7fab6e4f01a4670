package api

import (
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/bizboost/workshop-registration/registration"
)

type saveRegistrationRequest struct {
	RegistrationID string `json:"registrationId,omitempty"`

	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	PersonalEmail string `json:"personalEmail" validate:"omitempty,email"`
	BusinessEmail string `json:"businessEmail" validate:"omitempty,email"`
	Phone         string `json:"phone"`
	CountryCode   string `json:"countryCode"`

	BusinessName    string `json:"businessName"`
	Website         string `json:"website" validate:"omitempty,url"`
	Snapshot        string `json:"businessSnapshot"`
	TargetCustomers string `json:"targetCustomers"`
	YearsOperating  string `json:"yearsOperating"`
	Goal            string `json:"goal"`

	ReferralSource string `json:"referralSource"`
	ReferralOther  string `json:"referralOther"`

	WorkshopTitle string `json:"workshopTitle"`
	WorkshopPrice int64  `json:"workshopPrice" validate:"omitempty,gt=0"`
	Currency      string `json:"currency" validate:"omitempty,iso4217"`

	CurrentStep int        `json:"currentStep" validate:"omitempty,gte=0"`
	Status      string     `json:"status"`
	SubmittedAt *time.Time `json:"submittedAt,omitempty"`
}

type saveRegistrationResponse struct {
	RegistrationID string `json:"registrationId"`
	Status         string `json:"status"`
}

func (a *API) saveRegistration(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := a.getLoggerOrBaseLogger(ctx)

	var req saveRegistrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("Invalid body for registration save", slog.String("error", err.Error()))
		a.writeError(w, http.StatusBadRequest, InvalidRequest, "Body must be a valid registration JSON document")
		return
	}

	if err := a.validate.Struct(req); err != nil {
		logger.Warn("Registration save failed validation", slog.String("error", err.Error()))
		a.writeError(w, http.StatusBadRequest, InvalidRequest, err.Error())
		return
	}

	var status registration.Status
	if req.Status != "" {
		parsed, err := registration.ParseStatus(req.Status)
		if err != nil {
			logger.Warn("Unknown status on registration save", slog.String("status", req.Status))
			a.writeError(w, http.StatusBadRequest, InvalidRequest, "Unknown registration status")
			return
		}
		status = parsed
	}

	reg := registration.Registration{
		ID:              req.RegistrationID,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		PersonalEmail:   req.PersonalEmail,
		BusinessEmail:   req.BusinessEmail,
		Phone:           req.Phone,
		CountryCode:     req.CountryCode,
		BusinessName:    req.BusinessName,
		Website:         req.Website,
		Snapshot:        req.Snapshot,
		TargetCustomers: req.TargetCustomers,
		YearsOperating:  req.YearsOperating,
		Goal:            req.Goal,
		ReferralSource:  req.ReferralSource,
		ReferralOther:   req.ReferralOther,
		WorkshopTitle:   req.WorkshopTitle,
		WorkshopPrice:   req.WorkshopPrice,
		Currency:        req.Currency,
		CurrentStep:     req.CurrentStep,
		Status:          status,
		SubmittedAt:     req.SubmittedAt,
		RequestIP:       requestIP(r),
		UserAgent:       r.UserAgent(),
	}

	saved, err := registration.SaveRegistration(ctx, a.db, reg)
	if err != nil {
		logger.Error("Failed to save registration", slog.String("error", err.Error()))
		a.writeRegistrationError(w, err)
		return
	}

	a.writeJSON(w, http.StatusOK, saveRegistrationResponse{
		RegistrationID: saved.ID,
		Status:         saved.Status.String(),
	})
}

type registrationResponse struct {
	RegistrationID string `json:"registrationId"`

	FirstName     string `json:"firstName,omitempty"`
	LastName      string `json:"lastName,omitempty"`
	PersonalEmail string `json:"personalEmail,omitempty"`
	BusinessEmail string `json:"businessEmail,omitempty"`
	Phone         string `json:"phone,omitempty"`
	CountryCode   string `json:"countryCode,omitempty"`

	BusinessName    string `json:"businessName,omitempty"`
	Website         string `json:"website,omitempty"`
	Snapshot        string `json:"businessSnapshot,omitempty"`
	TargetCustomers string `json:"targetCustomers,omitempty"`
	YearsOperating  string `json:"yearsOperating,omitempty"`
	Goal            string `json:"goal,omitempty"`

	ReferralSource string `json:"referralSource,omitempty"`
	ReferralOther  string `json:"referralOther,omitempty"`

	WorkshopTitle string `json:"workshopTitle,omitempty"`
	WorkshopPrice int64  `json:"workshopPrice,omitempty"`
	Currency      string `json:"currency,omitempty"`

	CurrentStep int        `json:"currentStep"`
	Status      string     `json:"status"`
	SubmittedAt *time.Time `json:"submittedAt,omitempty"`

	CheckoutSessionID  string     `json:"checkoutSessionId,omitempty"`
	PaymentStatus      string     `json:"paymentStatus,omitempty"`
	PaymentCompletedAt *time.Time `json:"paymentCompletedAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (a *API) getRegistration(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := a.getLoggerOrBaseLogger(ctx)

	id := r.URL.Query().Get("id")
	if id == "" {
		a.writeError(w, http.StatusBadRequest, InvalidRequest, "Must specify a registration id")
		return
	}

	reg, err := a.db.GetRegistration(ctx, id)
	if err != nil {
		logger.Warn("Failed to read registration", slog.String("registration-id", id), slog.String("error", err.Error()))
		a.writeRegistrationError(w, err)
		return
	}

	a.writeJSON(w, http.StatusOK, registrationToResponse(reg))
}

func registrationToResponse(reg registration.Registration) registrationResponse {
	return registrationResponse{
		RegistrationID:     reg.ID,
		FirstName:          reg.FirstName,
		LastName:           reg.LastName,
		PersonalEmail:      reg.PersonalEmail,
		BusinessEmail:      reg.BusinessEmail,
		Phone:              reg.Phone,
		CountryCode:        reg.CountryCode,
		BusinessName:       reg.BusinessName,
		Website:            reg.Website,
		Snapshot:           reg.Snapshot,
		TargetCustomers:    reg.TargetCustomers,
		YearsOperating:     reg.YearsOperating,
		Goal:               reg.Goal,
		ReferralSource:     reg.ReferralSource,
		ReferralOther:      reg.ReferralOther,
		WorkshopTitle:      reg.WorkshopTitle,
		WorkshopPrice:      reg.WorkshopPrice,
		Currency:           reg.Currency,
		CurrentStep:        reg.CurrentStep,
		Status:             reg.Status.String(),
		SubmittedAt:        reg.SubmittedAt,
		CheckoutSessionID:  reg.CheckoutSessionID,
		PaymentStatus:      reg.PaymentStatus,
		PaymentCompletedAt: reg.PaymentCompletedAt,
		CreatedAt:          reg.CreatedAt,
		UpdatedAt:          reg.UpdatedAt,
	}
}

func requestIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		ip, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(ip)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
