package chart

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/yjk624/shinryeong/pkg/adapters"
	"github.com/yjk624/shinryeong/pkg/models/api"
	"github.com/yjk624/shinryeong/pkg/models/domain"
	"github.com/yjk624/shinryeong/pkg/services/calendar"
	"github.com/yjk624/shinryeong/pkg/services/report"
)

const maxBodyBytes = 64 << 10

// PlaceLister lists the place names the offline gazetteer knows.
type PlaceLister interface {
	Names() []string
}

type Handler struct {
	assembler report.Assembler
	converter calendar.Converter
	places    PlaceLister
}

func NewHandler(assembler report.Assembler, converter calendar.Converter, places PlaceLister) *Handler {
	return &Handler{
		assembler: assembler,
		converter: converter,
		places:    places,
	}
}

func (h *Handler) CreateChart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	var req api.BirthRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err, "")
		return
	}
	input, err := adapters.MapBirthRequestApiToDomain(req)
	if err != nil {
		writeError(w, r, err, subjectName(req, "A"))
		return
	}

	rep, err := h.assembler.BuildSingle(ctx, input)
	if err != nil {
		writeError(w, r, err, "")
		return
	}

	logger.Info().Int("sections", len(rep.Sections)).Msg("chart report built")
	writeJSON(w, r, http.StatusOK, adapters.MapReportDomainToApi(*rep))
}

func (h *Handler) CreateCompatibility(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	var req api.CompatibilityRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err, "")
		return
	}
	a, err := adapters.MapBirthRequestApiToDomain(req.A)
	if err != nil {
		writeError(w, r, err, subjectName(req.A, "A"))
		return
	}
	b, err := adapters.MapBirthRequestApiToDomain(req.B)
	if err != nil {
		writeError(w, r, err, subjectName(req.B, "B"))
		return
	}

	rep, err := h.assembler.BuildCompatibility(ctx, a, b)
	if err != nil {
		body := errorBody(err, "")
		if rep != nil {
			for _, s := range rep.Subjects {
				body.Subjects = append(body.Subjects, adapters.MapSubjectStatusDomainToApi(s))
			}
		}
		logger.Warn().Err(err).Str("kind", body.Kind).Msg("compatibility request failed")
		writeJSON(w, r, statusFor(err), body)
		return
	}

	logger.Info().Int("score", rep.Compatibility.Score).Msg("compatibility report built")
	writeJSON(w, r, http.StatusOK, adapters.MapReportDomainToApi(*rep))
}

// LunarToSolar handles GET /calendar/solar?date=YYYY-MM-DD&leap=bool, where
// date is a lunar date.
func (h *Handler) LunarToSolar(w http.ResponseWriter, r *http.Request) {
	date, err := domain.ParseLocalDate(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, r, err, "")
		return
	}
	leap := false
	if v := r.URL.Query().Get("leap"); v != "" {
		if leap, err = strconv.ParseBool(v); err != nil {
			writeError(w, r, fmt.Errorf("%w: leap must be true or false", domain.ErrInputIncomplete), "")
			return
		}
	}

	solar, err := h.converter.LunarToSolar(date, leap)
	if err != nil {
		writeError(w, r, err, "")
		return
	}
	writeJSON(w, r, http.StatusOK, api.CalendarDate{Solar: solar.String(), Lunar: date.String(), LeapMonth: leap})
}

// SolarToLunar handles GET /calendar/lunar?date=YYYY-MM-DD.
func (h *Handler) SolarToLunar(w http.ResponseWriter, r *http.Request) {
	date, err := domain.ParseLocalDate(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, r, err, "")
		return
	}

	lunar, err := h.converter.SolarToLunar(date)
	if err != nil {
		writeError(w, r, err, "")
		return
	}
	writeJSON(w, r, http.StatusOK, api.CalendarDate{
		Solar:     date.String(),
		Lunar:     lunar.Date.String(),
		LeapMonth: lunar.IsLeapMonth,
	})
}

func (h *Handler) ListPlaces(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, h.places.Names())
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", domain.ErrInputIncomplete, err)
	}
	return nil
}

func subjectName(req api.BirthRequest, fallback string) string {
	if req.Name != "" {
		return req.Name
	}
	return fallback
}

// statusFor maps pipeline errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInputIncomplete),
		errors.Is(err, domain.ErrInvalidCalendarDate),
		errors.Is(err, domain.ErrInvalidSolarDate):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrLocationNotResolved):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func errorBody(err error, subject string) api.Error {
	var se *domain.SubjectError
	if errors.As(err, &se) && subject == "" {
		subject = se.Subject
	}
	return api.Error{
		Error:   err.Error(),
		Kind:    domain.ErrorKind(err),
		Subject: subject,
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error, subject string) {
	status := statusFor(err)
	logger := zerolog.Ctx(r.Context())
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Msg("request failed")
	} else {
		logger.Debug().Err(err).Int("status", status).Msg("request rejected")
	}
	writeJSON(w, r, status, errorBody(err, subject))
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(r.Context()).Error().
			Err(err).
			Msg("failed to encode response")
	}
}
