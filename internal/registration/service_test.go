package registration

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/angelmondragon/matmaster-backend/internal/activity"
	"github.com/angelmondragon/matmaster-backend/internal/auth"
	"github.com/angelmondragon/matmaster-backend/internal/users"
	pkgAuth "github.com/angelmondragon/matmaster-backend/pkg/auth"
	"github.com/angelmondragon/matmaster-backend/pkg/config"
	"github.com/angelmondragon/matmaster-backend/pkg/db"
	"github.com/angelmondragon/matmaster-backend/pkg/db/models"
	"github.com/angelmondragon/matmaster-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/matmaster-backend/pkg/errors"
	"github.com/angelmondragon/matmaster-backend/pkg/logger"
	"github.com/angelmondragon/matmaster-backend/pkg/mailer"
	"github.com/angelmondragon/matmaster-backend/pkg/security"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testPasswords = config.PasswordConfig{
	ArgonMemoryKB:    8,
	ArgonTime:        1,
	ArgonParallelism: 1,
	ArgonSaltLen:     16,
	ArgonKeyLen:      32,
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []mailer.Message
	err  error
}

func (m *recordingMailer) Send(_ context.Context, msg mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

type harness struct {
	conn   *gorm.DB
	svc    Service
	repo   *Repository
	users  *users.Repository
	hasher security.Hasher
	mail   *recordingMailer
	logg   *logger.Logger
}

func newHarness(t *testing.T) harness {
	t.Helper()
	dsn := "file:registration_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), db.GormConfig())
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.RegistrationRequest{}, &models.User{}, &models.LoginActivity{}))

	h := harness{
		conn:   conn,
		repo:   NewRepository(conn),
		users:  users.NewRepository(conn),
		hasher: security.NewHasher(testPasswords),
		mail:   &recordingMailer{},
		logg:   logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
	}
	svc, err := NewService(ServiceParams{
		Repo:   h.repo,
		Users:  h.users,
		TX:     db.Wrap(conn),
		Hasher: h.hasher,
		Mailer: h.mail,
		Logger: h.logg,
		Now:    func() time.Time { return time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC) },
	})
	require.NoError(t, err)
	h.svc = svc
	return h
}

func janeRequest() SubmitRequest {
	return SubmitRequest{
		FirstName:  "Jane",
		LastName:   "Doe",
		FatherName: "Nathan",
		DOB:        "1992-07-15",
		Email:      " Jane@X.com ",
	}
}

func TestSubmitStoresPendingRequest(t *testing.T) {
	h := newHarness(t)
	got, err := h.svc.Submit(context.Background(), janeRequest())
	require.NoError(t, err)
	assert.Equal(t, "jane@x.com", got.Email)
	assert.Equal(t, enums.RequestStatusPending, got.Status)

	rows, err := h.svc.List(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, got.ID, rows[0].ID)
}

func TestSubmitValidatesInput(t *testing.T) {
	h := newHarness(t)
	cases := map[string]func(*SubmitRequest){
		"blank first name": func(r *SubmitRequest) { r.FirstName = "  " },
		"bad email":        func(r *SubmitRequest) { r.Email = "not-an-email" },
		"bad dob":          func(r *SubmitRequest) { r.DOB = "15/07/1992" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := janeRequest()
			mutate(&req)
			_, err := h.svc.Submit(context.Background(), req)
			assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
		})
	}
}

func TestSubmitRejectsDuplicates(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, err := h.svc.Submit(ctx, janeRequest())
	require.NoError(t, err)

	_, err = h.svc.Submit(ctx, janeRequest())
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeConflict))

	_, err = h.users.Create(ctx, users.CreateUserDTO{UserID: "alexh", Email: "alex@x.com", PasswordHash: "x", FirstName: "Alex", LastName: "Smith", FatherName: "Hugo", DOB: "1990-01-01"})
	require.NoError(t, err)
	req := janeRequest()
	req.Email = "alex@x.com"
	_, err = h.svc.Submit(ctx, req)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeConflict))
}

func TestApproveCreatesEmployeeAndAllowsLogin(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	req, err := h.svc.Submit(ctx, janeRequest())
	require.NoError(t, err)
	adminID := uuid.New()

	user, err := h.svc.Approve(ctx, req.ID, adminID)
	require.NoError(t, err)
	assert.Equal(t, "janee", user.UserID)
	assert.Equal(t, enums.RoleEmployee, user.Role)
	assert.True(t, user.IsActive)

	_, err = h.repo.FindByID(ctx, req.ID)
	assert.True(t, db.IsNotFound(err))

	require.Len(t, h.mail.sent, 1)
	assert.Equal(t, "jane@x.com", h.mail.sent[0].To)
	assert.Contains(t, h.mail.sent[0].HTML, "nath#15")

	acts, err := activity.NewService(activity.ServiceParams{Repo: activity.NewRepository(h.conn), Logger: h.logg})
	require.NoError(t, err)
	jwtCfg := config.JWTConfig{Secret: "secret", Issuer: "matmaster", ExpirationMinutes: 30}
	login, err := auth.NewService(auth.ServiceParams{
		UserRepo:   h.users,
		Passwords:  h.hasher,
		Activities: acts,
		JWTConfig:  jwtCfg,
		Logger:     h.logg,
	})
	require.NoError(t, err)

	resp, err := login.Login(ctx, auth.LoginRequest{Identifier: "janee", Password: "nath#15"})
	require.NoError(t, err)
	claims, err := pkgAuth.ParseAccessToken(jwtCfg, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, enums.RoleEmployee, claims.Role)
	assert.Equal(t, user.ID, claims.UID)
}

func TestApproveFailures(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.svc.Approve(ctx, uuid.New(), uuid.New())
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))

	req, err := h.svc.Submit(ctx, janeRequest())
	require.NoError(t, err)
	_, err = h.svc.Decline(ctx, req.ID, uuid.New(), "")
	require.NoError(t, err)
	_, err = h.svc.Approve(ctx, req.ID, uuid.New())
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeConflict))
}

func TestApproveRejectsUserIDCollision(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, err := h.users.Create(ctx, users.CreateUserDTO{UserID: "janee", Email: "other@x.com", PasswordHash: "x", FirstName: "Jane", LastName: "Lee", FatherName: "Tom", DOB: "1990-01-01"})
	require.NoError(t, err)
	req, err := h.svc.Submit(ctx, janeRequest())
	require.NoError(t, err)

	_, err = h.svc.Approve(ctx, req.ID, uuid.New())
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeConflict))

	still, err := h.repo.FindByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.RequestStatusPending, still.Status)
}

func TestApproveSucceedsWhenMailFails(t *testing.T) {
	h := newHarness(t)
	h.mail.err = errors.New("smtp down")
	ctx := context.Background()
	req, err := h.svc.Submit(ctx, janeRequest())
	require.NoError(t, err)

	_, err = h.svc.Approve(ctx, req.ID, uuid.New())
	require.NoError(t, err)
}

func TestDeclineMarksRejected(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	req, err := h.svc.Submit(ctx, janeRequest())
	require.NoError(t, err)
	adminID := uuid.New()

	got, err := h.svc.Decline(ctx, req.ID, adminID, " incomplete details ")
	require.NoError(t, err)
	assert.Equal(t, enums.RequestStatusRejected, got.Status)
	require.NotNil(t, got.RejectionReason)
	assert.Equal(t, "incomplete details", *got.RejectionReason)
	require.NotNil(t, got.ProcessedBy)
	assert.Equal(t, adminID, *got.ProcessedBy)
	require.NotNil(t, got.ProcessedAt)

	rejected, err := h.svc.List(ctx, enums.RequestStatusRejected)
	require.NoError(t, err)
	assert.Len(t, rejected, 1)
	pending, err := h.svc.List(ctx, enums.RequestStatusPending)
	require.NoError(t, err)
	assert.Empty(t, pending)

	_, err = h.svc.Decline(ctx, req.ID, adminID, "again")
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeConflict))

	require.Len(t, h.mail.sent, 1)
	assert.Contains(t, h.mail.sent[0].HTML, "incomplete details")
}

func TestListRejectsUnknownStatus(t *testing.T) {
	h := newHarness(t)
	_, err := h.svc.List(context.Background(), enums.RequestStatus("archived"))
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}
