package handler

import (
	"context"

	"github.com/sanosuguru/go-space-reservation/internal/application"
	"github.com/sanosuguru/go-space-reservation/internal/domain/client"
	"github.com/sanosuguru/go-space-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-space-reservation/internal/domain/resource"
	"github.com/sanosuguru/go-space-reservation/internal/domain/space"
	"github.com/sanosuguru/go-space-reservation/internal/domain/user"
)

// ReservationServiceInterface は予約サービスのインターフェース
type ReservationServiceInterface interface {
	CreateReservation(ctx context.Context, input application.CreateReservationInput) (*reservation.View, error)
	GetReservation(ctx context.Context, id int64) (*reservation.View, error)
	ListReservations(ctx context.Context, f reservation.Filter) ([]*reservation.View, int, error)
	UpdateReservation(ctx context.Context, id int64, input application.UpdateReservationInput) (*reservation.View, error)
	SoftDeleteReservation(ctx context.Context, id int64) (*reservation.Reservation, error)
}

// SpaceServiceInterface はスペースサービスのインターフェース
type SpaceServiceInterface interface {
	CreateSpace(ctx context.Context, input application.CreateSpaceInput) (*space.Space, error)
	GetSpace(ctx context.Context, id int64) (*space.Space, error)
	ListSpaces(ctx context.Context, f space.Filter) ([]*space.Space, int, error)
	UpdateSpace(ctx context.Context, id int64, input application.UpdateSpaceInput) (*space.Space, error)
	DeleteSpace(ctx context.Context, id int64) error
}

// AvailabilityInterface はスペースの空き状況照会のインターフェース
type AvailabilityInterface interface {
	CountActive(ctx context.Context, spaceID int64) (int, error)
}

// ResourceServiceInterface はリソースサービスのインターフェース
type ResourceServiceInterface interface {
	CreateResource(ctx context.Context, input application.CreateResourceInput) (*resource.Resource, error)
	GetResource(ctx context.Context, id int64) (*resource.Resource, error)
	ListResources(ctx context.Context, f resource.Filter) ([]*resource.Resource, int, error)
	UpdateResource(ctx context.Context, id int64, input application.UpdateResourceInput) (*resource.Resource, error)
	DeleteResource(ctx context.Context, id int64) error
}

// ClientServiceInterface はクライアントサービスのインターフェース
type ClientServiceInterface interface {
	CreateClient(ctx context.Context, input application.CreateClientInput) (*client.Client, error)
	GetClient(ctx context.Context, id int64) (*client.Client, error)
	ListClients(ctx context.Context, f client.Filter) ([]*client.Client, int, error)
	UpdateClient(ctx context.Context, id int64, input application.UpdateClientInput) (*client.Client, error)
	DeleteClient(ctx context.Context, id int64) error
}

// AuthServiceInterface は認証サービスのインターフェース
type AuthServiceInterface interface {
	Register(ctx context.Context, input application.RegisterInput) (*user.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	GetUser(ctx context.Context, id int64) (*user.User, error)
}
