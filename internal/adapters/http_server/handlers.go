// internal/adapters/http_server/handlers.go
package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"hotelex_register/internal/adapters/observability"
	"hotelex_register/internal/app"
	"hotelex_register/internal/domain"
)

type Handlers struct {
	Reg *app.RegistrationService
	Q   *app.QueryService
}

var validate = validator.New()

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Post("/api/save-hotel-info", h.saveHotelInfo)
	s.mux.Post("/api/send-whatsapp", h.sendWhatsApp)
	s.mux.Post("/send-whatsapp", h.sendWhatsAppLegacy)
	s.mux.Get("/api/hotels/{id}", h.getHotel)
	s.mux.Get("/api/hotels", h.listHotels)
}

// ---- response envelope (shape kept from the original API) ----

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	HotelID int64  `json:"hotelId,omitempty"`
	Warning string `json:"warning,omitempty"`
	Error   string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// ---- request bodies (two generations of the same form) ----

type itemReq struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description"`
}

type saveHotelReq struct {
	Name        string    `json:"name" validate:"required"`
	PhoneNumber string    `json:"phoneNumber" validate:"required"`
	Whatsapp    string    `json:"whatsapp" validate:"required"`
	HotelName   string    `json:"hotelName" validate:"required"`
	Position    *string   `json:"position"`
	Address     *string   `json:"address"`
	Items       []itemReq `json:"items" validate:"omitempty,dive"`
}

type sendWhatsAppReq struct {
	Name            string    `json:"name" validate:"required"`
	PhoneNumber     string    `json:"phoneNumber" validate:"required"`
	Whatsapp        string    `json:"whatsapp" validate:"required"`
	HotelName       string    `json:"hotelName" validate:"required"`
	Description     *string   `json:"description"`
	PositionAddress *string   `json:"positionAddress"`
	Items           []itemReq `json:"items" validate:"omitempty,dive"`
}

type legacyReq struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone" validate:"required"`
}

func mapItems(in []itemReq) []app.ItemInput {
	out := make([]app.ItemInput, 0, len(in))
	for _, it := range in {
		out = append(out, app.ItemInput{Name: it.Name, Description: it.Description})
	}
	return out
}

const requiredFieldsMsg = "Required fields (name, phone number, WhatsApp, and hotel name) must be provided."

func decodeValid(w http.ResponseWriter, r *http.Request, dst any, badRequestMsg string) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, envelope{Success: false, Message: "Invalid JSON body."})
		return false
	}
	if err := validate.Struct(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, envelope{Success: false, Message: badRequestMsg})
		return false
	}
	return true
}

// ---- write endpoints ----

func (h *Handlers) saveHotelInfo(w http.ResponseWriter, r *http.Request) {
	var req saveHotelReq
	if !decodeValid(w, r, &req, requiredFieldsMsg) {
		return
	}

	res, err := h.Reg.RegisterHotel(r.Context(), app.RegisterHotelCommand{
		Name:        req.Name,
		PhoneNumber: req.PhoneNumber,
		Whatsapp:    req.Whatsapp,
		HotelName:   req.HotelName,
		Description: req.Position,
		Address:     req.Address,
		Items:       mapItems(req.Items),
		Notify:      false,
	})
	if err != nil {
		h.writeRegistrationError(w, err)
		return
	}
	observability.ObserveRegistration("hotel", "skipped")
	writeJSON(w, http.StatusCreated, envelope{
		Success: true,
		Message: "Hotel information and items saved successfully.",
		HotelID: res.HotelID,
	})
}

func (h *Handlers) sendWhatsApp(w http.ResponseWriter, r *http.Request) {
	var req sendWhatsAppReq
	if !decodeValid(w, r, &req, requiredFieldsMsg) {
		return
	}

	res, err := h.Reg.RegisterHotel(r.Context(), app.RegisterHotelCommand{
		Name:        req.Name,
		PhoneNumber: req.PhoneNumber,
		Whatsapp:    req.Whatsapp,
		HotelName:   req.HotelName,
		Description: req.Description,
		Address:     req.PositionAddress,
		Items:       mapItems(req.Items),
		Notify:      true,
	})
	if err != nil {
		h.writeRegistrationError(w, err)
		return
	}

	if res.Warning != "" {
		observability.ObserveRegistration("hotel", "warning")
		writeJSON(w, http.StatusCreated, envelope{
			Success: true,
			Message: "Information saved successfully, but failed to send WhatsApp message.",
			HotelID: res.HotelID,
			Warning: res.Warning,
		})
		return
	}
	observability.ObserveRegistration("hotel", "ok")
	writeJSON(w, http.StatusCreated, envelope{
		Success: true,
		Message: "Information saved and WhatsApp message sent successfully.",
		HotelID: res.HotelID,
	})
}

func (h *Handlers) sendWhatsAppLegacy(w http.ResponseWriter, r *http.Request) {
	var req legacyReq
	if !decodeValid(w, r, &req, "Name and phone must be provided.") {
		return
	}

	res, err := h.Reg.RegisterUser(r.Context(), app.RegisterUserCommand{Name: req.Name, Phone: req.Phone})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidPhone) {
			writeJSON(w, http.StatusBadRequest, envelope{
				Success: false,
				Message: "Phone number must start with 0 or country code (+xx)",
			})
			return
		}
		h.writeRegistrationError(w, err)
		return
	}

	if res.Warning != "" {
		observability.ObserveRegistration("user", "warning")
		writeJSON(w, http.StatusCreated, envelope{
			Success: true,
			Message: "Information saved successfully, but failed to send WhatsApp message.",
			Warning: res.Warning,
		})
		return
	}
	observability.ObserveRegistration("user", "ok")
	writeJSON(w, http.StatusCreated, envelope{
		Success: true,
		Message: "Message sent successfully! This is from Hotelex Holding.",
	})
}

func (h *Handlers) writeRegistrationError(w http.ResponseWriter, err error) {
	if domain.IsValidation(err) {
		writeJSON(w, http.StatusBadRequest, envelope{Success: false, Message: requiredFieldsMsg})
		return
	}
	writeJSON(w, http.StatusInternalServerError, envelope{
		Success: false,
		Message: "Error processing your request.",
		Error:   err.Error(),
	})
}

// ---- read endpoints ----

type hotelResp struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	PhoneNumber string     `json:"phoneNumber"`
	Whatsapp    string     `json:"whatsapp"`
	HotelName   string     `json:"hotelName"`
	Description *string    `json:"description,omitempty"`
	Address     *string    `json:"address,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	Items       []itemResp `json:"items"`
}

type itemResp struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toHotelResp(h domain.Hotel) hotelResp {
	out := hotelResp{
		ID:          h.ID,
		Name:        h.Name,
		PhoneNumber: h.PhoneNumber,
		Whatsapp:    h.Whatsapp,
		HotelName:   h.HotelName,
		Description: h.Description,
		Address:     h.Address,
		CreatedAt:   h.CreatedAt,
		Items:       make([]itemResp, 0, len(h.Items)),
	}
	for _, it := range h.Items {
		out.Items = append(out.Items, itemResp{ID: it.ID, Name: it.Name, Description: it.Description, CreatedAt: it.CreatedAt})
	}
	return out
}

func (h *Handlers) getHotel(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, envelope{Success: false, Message: "Hotel id must be a number."})
		return
	}
	hotel, err := h.Q.GetHotel(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, envelope{Success: false, Message: "Hotel not found."})
			return
		}
		h.writeRegistrationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toHotelResp(hotel))
}

func (h *Handlers) listHotels(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if ls := r.URL.Query().Get("limit"); ls != "" {
		l, err := strconv.Atoi(ls)
		if err != nil || l <= 0 || l > 200 {
			writeJSON(w, http.StatusBadRequest, envelope{Success: false, Message: "limit must be an integer between 1 and 200"})
			return
		}
		limit = l
	}
	hotels, err := h.Q.ListRecent(r.Context(), limit)
	if err != nil {
		h.writeRegistrationError(w, err)
		return
	}
	out := make([]hotelResp, 0, len(hotels))
	for _, hh := range hotels {
		out = append(out, toHotelResp(hh))
	}
	writeJSON(w, http.StatusOK, out)
}
