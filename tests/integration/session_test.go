package integration

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cuidadomaisfamilia/cuidado-api/internal/config"
	"github.com/cuidadomaisfamilia/cuidado-api/internal/events"
	"github.com/cuidadomaisfamilia/cuidado-api/internal/guard"
	"github.com/cuidadomaisfamilia/cuidado-api/internal/handlers"
	"github.com/cuidadomaisfamilia/cuidado-api/internal/metrics"
	authmw "github.com/cuidadomaisfamilia/cuidado-api/internal/middleware"
	"github.com/cuidadomaisfamilia/cuidado-api/internal/services"
	"github.com/cuidadomaisfamilia/cuidado-api/internal/session"
	"github.com/cuidadomaisfamilia/cuidado-api/pkg/client"
	"github.com/cuidadomaisfamilia/cuidado-api/pkg/identity"
	"github.com/cuidadomaisfamilia/cuidado-api/tests/testutil"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/m1z23r/drift/pkg/middleware"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTest starts a migrated Postgres container for one test.
func setupTest(t *testing.T) *testutil.TestDB {
	t.Helper()
	return testutil.SetupTestDB(t)
}

type apiStack struct {
	url   string
	roles *services.RoleService
}

// startAPI serves the auth, user and directory routes over the test database.
func startAPI(t *testing.T, tdb *testutil.TestDB) *apiStack {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	cfg := &config.Config{
		Env:                 "test",
		JWTSecret:           "integration-secret",
		JWTAccessExpiry:     15 * time.Minute,
		JWTRefreshExpiry:    time.Hour,
		RecentLoginWindow:   5 * time.Minute,
		PasswordResetExpiry: time.Hour,
	}
	m := metrics.New()

	jwtService := services.NewJWTService(cfg.JWTSecret, cfg.JWTAccessExpiry, cfg.JWTRefreshExpiry)
	identityService := services.NewIdentityService(tdb.DB, cfg.PasswordResetExpiry)
	userService := services.NewUserService(tdb.DB)
	roleService := services.NewRoleService(tdb.DB)
	tokenService := services.NewTokenService(tdb.DB)
	professionalService := services.NewProfessionalService(tdb.DB)

	hub := events.NewHub()
	go hub.Run(ctx)
	notifier := handlers.NewNotifier(hub, m)

	emailMock := new(testutil.MockEmailService)
	authHandler := handlers.NewAuthHandler(cfg, identityService, userService, roleService, tokenService, jwtService, emailMock, notifier, m)
	userHandler := handlers.NewUserHandler(userService, roleService, notifier)
	professionalHandler := handlers.NewProfessionalHandler(professionalService)

	app := drift.New()
	app.Use(middleware.BodyParser())

	api := app.Group("/api/v1")
	api.Post("/auth/register", authHandler.Register)
	api.Post("/auth/login", authHandler.Login)
	api.Post("/auth/refresh", authHandler.RefreshToken)
	api.Post("/auth/logout", authHandler.Logout)

	protected := api.Group("")
	protected.Use(authmw.Auth(jwtService))
	protected.Get("/users/me", userHandler.GetMe)
	protected.Get("/users/:id/role", userHandler.GetRole)
	protected.Get("/professionals", professionalHandler.List)

	admin := api.Group("")
	admin.Use(authmw.Auth(jwtService))
	admin.Use(authmw.RequireAdmin(roleService))
	admin.Post("/professionals", professionalHandler.Create)

	srv := httptest.NewServer(app)
	t.Cleanup(srv.Close)

	return &apiStack{url: srv.URL, roles: roleService}
}

func TestSession_Integration_SignUpThroughGuard(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	stack := startAPI(t, tdb)
	ctx := context.Background()

	c := client.New(stack.url, client.NewMemoryTokenStore())
	store := session.NewStore(c, c, zerolog.Nop())
	release, err := store.Subscribe(ctx)
	require.NoError(t, err)
	defer release()

	assert.False(t, store.Initialize(ctx).IsAuthenticated())

	nav := guard.NewStackNavigator(guard.LoginRoute)
	g := guard.New(store, nav, zerolog.Nop())
	g.Start()
	defer g.Stop()
	assert.Equal(t, guard.UnauthenticatedOnPublic, g.Last().Status)

	_, err = c.SignUp(ctx, "maria@example.com", "segredo123", "Maria")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return store.State().Role == identity.RoleUser
	}, 5*time.Second, 20*time.Millisecond)
	assert.False(t, store.IsAdmin())
	require.Eventually(t, func() bool {
		return nav.Current() == guard.LandingRoute
	}, 5*time.Second, 20*time.Millisecond)

	require.NoError(t, c.SignOut(ctx))
	assert.False(t, store.IsAuthenticated())
	require.Eventually(t, func() bool {
		return nav.Current() == guard.LoginRoute
	}, 5*time.Second, 20*time.Millisecond)
}

func TestSession_Integration_AdminResolvedOnRestore(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	stack := startAPI(t, tdb)
	ctx := context.Background()

	admin := testutil.NewFixtures(tdb.DB).CreateAdmin(t, testutil.WithEmail("admin@example.com"))
	tokens := client.NewMemoryTokenStore()

	first := client.New(stack.url, tokens)
	_, err := first.SignIn(ctx, "admin@example.com", testutil.DefaultPassword)
	require.NoError(t, err)

	// A later process reuses the persisted tokens.
	c := client.New(stack.url, tokens)
	store := session.NewStore(c, c, zerolog.Nop())

	st := store.Initialize(ctx)
	require.True(t, st.IsAuthenticated())
	assert.Equal(t, admin.ID.String(), st.Identity.ID)
	assert.True(t, st.IsAdmin())
	assert.False(t, st.Loading)

	role, ok := store.CheckUserRole(ctx)
	assert.True(t, ok)
	assert.Equal(t, identity.RoleAdmin, role)
}

func TestSession_Integration_MissingRoleRecord(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	stack := startAPI(t, tdb)
	ctx := context.Background()

	fixtures := testutil.NewFixtures(tdb.DB)
	user := fixtures.CreateUser(t, testutil.WithEmail("sem-papel@example.com"))
	fixtures.SetRole(t, user, identity.RoleUnknown)

	c := client.New(stack.url, client.NewMemoryTokenStore())
	_, err := c.SignIn(ctx, "sem-papel@example.com", testutil.DefaultPassword)
	require.NoError(t, err)

	role, err := c.FetchRole(ctx, user.ID.String())
	require.NoError(t, err)
	assert.Equal(t, identity.RoleUnknown, role)

	_, err = c.FetchRole(ctx, uuid.NewString())
	assert.Equal(t, http.StatusForbidden, client.StatusOf(err))

	require.NoError(t, stack.roles.SetRole(ctx, user.ID, identity.RoleAdmin))
	role, err = c.FetchRole(ctx, user.ID.String())
	require.NoError(t, err)
	assert.Equal(t, identity.RoleAdmin, role)

	// Admins may look anyone up; a stranger simply has no role.
	role, err = c.FetchRole(ctx, uuid.NewString())
	require.NoError(t, err)
	assert.Equal(t, identity.RoleUnknown, role)
}
