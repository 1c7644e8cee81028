package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"hotelex_register/internal/domain"
)

// RegisterHotelCommand carries one registration submission. The HTTP layer
// maps both body variants onto it; the service only knows one shape.
type RegisterHotelCommand struct {
	Name        string
	PhoneNumber string
	Whatsapp    string
	HotelName   string
	Description *string
	Address     *string
	Items       []ItemInput
	// Notify controls whether a WhatsApp confirmation is attempted after
	// the commit. Persistence never depends on it.
	Notify bool
}

type ItemInput struct {
	Name        string
	Description *string
}

type RegisterUserCommand struct {
	Name  string
	Phone string
}

// RegistrationResult reports a committed registration. Warning is non-empty
// when the data was saved but the notification could not be delivered.
type RegistrationResult struct {
	HotelID int64
	Warning string
}

const hotelTemplate = "Hello %s,\nYour hotel %s has been successfully registered.\nhttps://hotelex.ae/catalog/"
const userTemplate = "Hello %s, This is from Hotelex Holding. https://hotelex.ae/catalog/"

type RegistrationService struct {
	repo   domain.RegistrationRepository
	msg    domain.Messenger
	cache  domain.Cache
	strict domain.PhonePolicy
	loose  domain.PhonePolicy
}

func NewRegistrationService(r domain.RegistrationRepository, m domain.Messenger, c domain.Cache, countryCode string) *RegistrationService {
	return &RegistrationService{
		repo:   r,
		msg:    m,
		cache:  c,
		strict: domain.PhonePolicy{CountryCode: countryCode, MinLen: 10},
		loose:  domain.PhonePolicy{CountryCode: countryCode},
	}
}

// RegisterHotel validates, persists hotel+items atomically, then attempts
// the WhatsApp confirmation. The notification runs strictly after commit:
// its failure downgrades the outcome to saved-with-warning, never rolls back.
func (s *RegistrationService) RegisterHotel(ctx context.Context, cmd RegisterHotelCommand) (RegistrationResult, error) {
	if ve := requireFields(map[string]string{
		"name":        cmd.Name,
		"phoneNumber": cmd.PhoneNumber,
		"whatsapp":    cmd.Whatsapp,
		"hotelName":   cmd.HotelName,
	}); ve != nil {
		return RegistrationResult{}, ve
	}

	hotel := domain.Hotel{
		Name:        cmd.Name,
		PhoneNumber: cmd.PhoneNumber,
		Whatsapp:    cmd.Whatsapp,
		HotelName:   cmd.HotelName,
		Description: cmd.Description,
		Address:     cmd.Address,
	}
	items := make([]domain.Item, 0, len(cmd.Items))
	for _, it := range cmd.Items {
		items = append(items, domain.Item{Name: it.Name, Description: it.Description})
	}

	hotelID, err := s.repo.InsertHotelWithItems(ctx, hotel, items)
	if err != nil {
		return RegistrationResult{}, fmt.Errorf("persist registration: %w", err)
	}
	s.invalidateRecent(ctx)

	res := RegistrationResult{HotelID: hotelID}
	if !cmd.Notify {
		return res, nil
	}

	to, err := s.strict.Normalize(cmd.Whatsapp)
	if err != nil {
		res.Warning = "WhatsApp number must start with a country code (+xx)."
		return res, nil
	}
	if err := s.send(ctx, to, fmt.Sprintf(hotelTemplate, cmd.Name, cmd.HotelName)); err != nil {
		log.Warn().Err(err).Int64("hotel_id", hotelID).Msg("notification failed after commit")
		res.Warning = err.Error()
	}
	return res, nil
}

// RegisterUser is the legacy contact form: a single users row and a fixed
// message. The phone is rejected before anything is written, matching the
// original endpoint.
func (s *RegistrationService) RegisterUser(ctx context.Context, cmd RegisterUserCommand) (RegistrationResult, error) {
	if ve := requireFields(map[string]string{"name": cmd.Name, "phone": cmd.Phone}); ve != nil {
		return RegistrationResult{}, ve
	}
	phone, err := s.loose.Normalize(cmd.Phone)
	if err != nil {
		return RegistrationResult{}, err
	}

	userID, err := s.repo.InsertUser(ctx, domain.User{Name: cmd.Name, Phone: phone})
	if err != nil {
		return RegistrationResult{}, fmt.Errorf("persist user: %w", err)
	}
	res := RegistrationResult{HotelID: userID}
	if err := s.send(ctx, phone, fmt.Sprintf(userTemplate, cmd.Name)); err != nil {
		log.Warn().Err(err).Int64("user_id", userID).Msg("notification failed after commit")
		res.Warning = err.Error()
	}
	return res, nil
}

func (s *RegistrationService) send(ctx context.Context, to, message string) error {
	if s.msg == nil {
		return fmt.Errorf("messaging gateway not configured")
	}
	return s.msg.Send(ctx, to, message)
}

func (s *RegistrationService) invalidateRecent(ctx context.Context) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Del(ctx, recentHotelsKey)
}

func requireFields(fields map[string]string) *domain.ValidationError {
	var missing []string
	for _, k := range []string{"name", "phoneNumber", "whatsapp", "hotelName", "phone"} {
		v, ok := fields[k]
		if ok && v == "" {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return &domain.ValidationError{Fields: missing}
	}
	return nil
}
