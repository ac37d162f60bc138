package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/angelmondragon/matmaster-backend/internal/credentials"
	"github.com/angelmondragon/matmaster-backend/internal/users"
	"github.com/angelmondragon/matmaster-backend/pkg/config"
	"github.com/angelmondragon/matmaster-backend/pkg/db"
	"github.com/angelmondragon/matmaster-backend/pkg/db/models"
	"github.com/angelmondragon/matmaster-backend/pkg/enums"
)

type adminStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
}

type passwordHasher interface {
	Hash(password string) (string, error)
}

// seed creates the configured admin unless a user already holds its email.
// It reports whether a row was written and the login identifier in use.
func seed(ctx context.Context, store adminStore, hasher passwordHasher, cfg config.AdminConfig) (bool, string, error) {
	email := strings.ToLower(strings.TrimSpace(cfg.Email))
	if email == "" {
		return false, "", errors.New("admin email is required")
	}

	existing, err := store.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return false, existing.UserID, nil
	case !db.IsNotFound(err):
		return false, "", fmt.Errorf("lookup admin: %w", err)
	}

	userID := strings.ToLower(strings.TrimSpace(cfg.UserID))
	if userID == "" {
		userID = credentials.UserID(cfg.FirstName, cfg.LastName)
	}
	if userID == "" {
		return false, "", errors.New("admin user id could not be derived")
	}

	password := cfg.Password
	if password == "" {
		password, err = credentials.Password(cfg.FatherName, cfg.DOB)
		if err != nil {
			return false, "", fmt.Errorf("admin password: %w", err)
		}
	}

	hash, err := hasher.Hash(password)
	if err != nil {
		return false, "", fmt.Errorf("hash admin password: %w", err)
	}

	active := true
	if _, err := store.Create(ctx, users.CreateUserDTO{
		UserID:       userID,
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(cfg.FirstName),
		LastName:     strings.TrimSpace(cfg.LastName),
		FatherName:   strings.TrimSpace(cfg.FatherName),
		DOB:          strings.TrimSpace(cfg.DOB),
		Role:         enums.RoleAdmin,
		IsActive:     &active,
	}); err != nil {
		return false, "", fmt.Errorf("create admin: %w", err)
	}
	return true, userID, nil
}
