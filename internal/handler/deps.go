package handler

import (
	"context"
	"time"

	"github.com/iliyamo/photo-marketplace/internal/model"
	"github.com/iliyamo/photo-marketplace/internal/queue"
	"github.com/iliyamo/photo-marketplace/internal/repository"
)

// The store interfaces below are satisfied by the repository types and by
// the mocks in the handler tests.

type UserStore interface {
	Create(ctx context.Context, u *model.User) (uint64, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id uint64) (*model.User, error)
}

type TokenStore interface {
	Store(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error
	Validate(ctx context.Context, tokenHash string) (uint64, error)
	Revoke(ctx context.Context, tokenHash string) error
	RevokeAll(ctx context.Context, userID uint64) error
}

type BookingStore interface {
	Create(ctx context.Context, b *model.Booking) error
	GetByID(ctx context.Context, id uint64) (*model.Booking, error)
	ListBySeller(ctx context.Context, sellerID uint64) ([]model.Booking, error)
	ListByCustomer(ctx context.Context, customerID uint64) ([]model.Booking, error)
	ListAll(ctx context.Context) ([]model.Booking, error)
	UpdateStatus(ctx context.Context, id, sellerID uint64, upd model.BookingStatusUpdate) (*model.Booking, error)
}

type CouponStore interface {
	Create(ctx context.Context, c *model.Coupon) error
	GetByID(ctx context.Context, id uint64) (*model.Coupon, error)
	GetByCode(ctx context.Context, code string) (*model.Coupon, error)
	List(ctx context.Context) ([]model.Coupon, error)
	Update(ctx context.Context, c *model.Coupon) error
	Delete(ctx context.Context, id uint64) error
	Redeem(ctx context.Context, id uint64) (*model.Coupon, error)
}

type GiftStore interface {
	Create(ctx context.Context, g *model.Gift) error
	GetByID(ctx context.Context, id uint64) (*model.Gift, error)
	List(ctx context.Context) ([]model.Gift, error)
	Update(ctx context.Context, g *model.Gift) error
	Delete(ctx context.Context, id uint64) error
}

type AdvertisementStore interface {
	Create(ctx context.Context, a *model.Advertisement) error
	GetByID(ctx context.Context, id uint64) (*model.Advertisement, error)
	List(ctx context.Context) ([]model.Advertisement, error)
	Update(ctx context.Context, a *model.Advertisement) error
	Delete(ctx context.Context, id uint64) error
}

type TicketStore interface {
	Create(ctx context.Context, t *model.Ticket) error
	GetByID(ctx context.Context, id uint64) (*model.Ticket, error)
	List(ctx context.Context) ([]model.Ticket, error)
	ListByRaiser(ctx context.Context, userID uint64) ([]model.Ticket, error)
	Update(ctx context.Context, id uint64, upd repository.TicketUpdate) (*model.Ticket, error)
}

type TeamStore interface {
	ListBySeller(ctx context.Context, sellerID uint64) ([]model.TeamMember, error)
	GetByID(ctx context.Context, id, sellerID uint64) (*model.TeamMember, error)
	Create(ctx context.Context, m *model.TeamMember) error
	Update(ctx context.Context, m *model.TeamMember) error
	Delete(ctx context.Context, id, sellerID uint64) error
}

type ProfileStore interface {
	Get(ctx context.Context, userID uint64) (*model.SellerProfile, error)
	Upsert(ctx context.Context, p *model.SellerProfile) error
}

// EventPublisher is implemented by *queue.Dispatcher, which sends in the
// background and returns immediately.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.Event) error
}

// CachePurger is implemented by *middleware.ResponseCache.
type CachePurger interface {
	Purge(ctx context.Context) error
}

// Clock returns the current time in the dashboard timezone.
type Clock func() time.Time

// ClockIn returns a Clock that reports wall time in loc.
func ClockIn(loc *time.Location) Clock {
	return func() time.Time { return time.Now().In(loc) }
}
