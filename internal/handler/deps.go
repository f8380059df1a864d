package handler

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"rtchat/internal/app/chat"
	"rtchat/internal/app/identity"
	"rtchat/internal/app/storage"
	"rtchat/internal/app/store"
	"rtchat/internal/configs"
)

// AppDeps bundles the dependencies handlers need.
type AppDeps struct {
	Coordinator *chat.Coordinator
	Config      *configs.AppConfig
	Resolver    *identity.Resolver
	Messages    *store.MessageStore
	Users       *store.UserStore

	// Storage is nil when S3 is not configured; avatar routes are not mounted then.
	Storage storage.StorageService

	// Pool backs the database health endpoint.
	Pool *pgxpool.Pool
}
