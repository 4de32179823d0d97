package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	authdomain "github.com/smallbiznis/gardenwatch/internal/auth/domain"
	"github.com/smallbiznis/gardenwatch/internal/auth/session"
	"github.com/smallbiznis/gardenwatch/internal/authorization"
	"github.com/smallbiznis/gardenwatch/internal/cache"
	"github.com/smallbiznis/gardenwatch/internal/clock"
	"github.com/smallbiznis/gardenwatch/internal/config"
	keyworddomain "github.com/smallbiznis/gardenwatch/internal/keyword/domain"
	milestonedomain "github.com/smallbiznis/gardenwatch/internal/milestone/domain"
	"github.com/smallbiznis/gardenwatch/internal/observability"
	obsmetrics "github.com/smallbiznis/gardenwatch/internal/observability/metrics"
	profiledomain "github.com/smallbiznis/gardenwatch/internal/profile/domain"
	"github.com/smallbiznis/gardenwatch/internal/ratelimit"
	subscriptiondomain "github.com/smallbiznis/gardenwatch/internal/subscription/domain"
	"go.uber.org/zap"
)

const validToken = "valid-token"

type fakeAuthService struct {
	role        string
	signInErr   error
	signUpErr   error
	signOutCall int
	verifyErr   error
}

func (f *fakeAuthService) SignUp(ctx context.Context, req authdomain.SignUpRequest) (*authdomain.SignUpResult, error) {
	if f.signUpErr != nil {
		return nil, f.signUpErr
	}
	return &authdomain.SignUpResult{User: &authdomain.User{Email: req.Email}, VerificationRequired: true}, nil
}

func (f *fakeAuthService) VerifyEmail(ctx context.Context, rawToken string) (*authdomain.User, error) {
	if f.verifyErr != nil {
		return nil, f.verifyErr
	}
	return &authdomain.User{Email: "alice@example.com"}, nil
}

func (f *fakeAuthService) SignIn(ctx context.Context, req authdomain.SignInRequest) (*authdomain.SignInResult, error) {
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	return &authdomain.SignInResult{
		UserID:    snowflake.ID(100),
		Email:     req.Email,
		RawToken:  validToken,
		ExpiresAt: time.Now().Add(time.Hour),
		SessionID: snowflake.ID(500),
	}, nil
}

func (f *fakeAuthService) SignOut(ctx context.Context, rawToken string) error {
	f.signOutCall++
	return nil
}

func (f *fakeAuthService) Authenticate(ctx context.Context, rawToken string) (*authdomain.Session, *authdomain.User, error) {
	if rawToken != validToken {
		return nil, nil, authdomain.ErrInvalidSession
	}
	role := f.role
	if role == "" {
		role = authdomain.RoleUser
	}
	return &authdomain.Session{ID: snowflake.ID(500), UserID: snowflake.ID(100)},
		&authdomain.User{ID: snowflake.ID(100), Email: "alice@example.com", Role: role},
		nil
}

func (f *fakeAuthService) EnsureAdmin(ctx context.Context, email, password string) (*authdomain.User, error) {
	return nil, errors.New("not implemented")
}

type fakeKeywordService struct {
	items     []keyworddomain.Keyword
	listCalls int
	created   []string
}

func (f *fakeKeywordService) List(ctx context.Context) ([]keyworddomain.Keyword, error) {
	f.listCalls++
	return f.items, nil
}

func (f *fakeKeywordService) Resolve(ctx context.Context, ids []string) ([]keyworddomain.Keyword, error) {
	out := make([]keyworddomain.Keyword, 0, len(ids))
	for _, raw := range ids {
		found := false
		for _, kw := range f.items {
			if kw.ID.String() == raw {
				out = append(out, kw)
				found = true
			}
		}
		if !found {
			return nil, keyworddomain.ErrUnknownKeyword
		}
	}
	return out, nil
}

func (f *fakeKeywordService) Create(ctx context.Context, req keyworddomain.CreateRequest) (*keyworddomain.Keyword, error) {
	f.created = append(f.created, req.Name)
	return &keyworddomain.Keyword{ID: snowflake.ID(9), Name: req.Name}, nil
}

func (f *fakeKeywordService) Delete(ctx context.Context, id string) error {
	return keyworddomain.ErrNotFound
}

type fakeMilestoneService struct {
	limit int
}

func (f *fakeMilestoneService) EffectiveLimit(ctx context.Context) (int, error) {
	return f.limit, nil
}

func (f *fakeMilestoneService) Progress(ctx context.Context) (*milestonedomain.Progress, error) {
	eval, err := milestonedomain.Evaluate(4, []milestonedomain.Milestone{
		{TargetUserCount: 10, MaxKeywordsAllowed: 10},
		{TargetUserCount: 2, MaxKeywordsAllowed: 7},
	}, 5)
	if err != nil {
		return nil, err
	}
	return &milestonedomain.Progress{Evaluation: eval, ShareLink: "https://garden.example"}, nil
}

func (f *fakeMilestoneService) List(ctx context.Context) ([]milestonedomain.Milestone, error) {
	return nil, nil
}

func (f *fakeMilestoneService) Upsert(ctx context.Context, req milestonedomain.UpsertRequest) (*milestonedomain.Milestone, error) {
	return &milestonedomain.Milestone{TargetUserCount: req.TargetUserCount, MaxKeywordsAllowed: req.MaxKeywordsAllowed}, nil
}

func (f *fakeMilestoneService) Delete(ctx context.Context, threshold int64) error {
	return nil
}

type fakeSubscriptionService struct {
	current      []snowflake.ID
	limit        int
	currentCalls int
	saved        []snowflake.ID
	saveErr      error
}

func (f *fakeSubscriptionService) Current(ctx context.Context, userID snowflake.ID) ([]snowflake.ID, error) {
	f.currentCalls++
	return f.current, nil
}

func (f *fakeSubscriptionService) Save(ctx context.Context, userID snowflake.ID, desired []snowflake.ID) (*subscriptiondomain.SaveResult, error) {
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	if len(desired) > f.limit {
		return nil, &subscriptiondomain.LimitExceededError{Limit: f.limit, Requested: len(desired)}
	}
	f.saved = desired
	delta, err := subscriptiondomain.Reconcile(subscriptiondomain.NewSet(desired...), subscriptiondomain.NewSet(f.current...), f.limit)
	if err != nil {
		return nil, err
	}
	f.current = desired
	return &subscriptiondomain.SaveResult{Limit: f.limit, Added: subscriptiondomain.Sorted(delta.ToAdd), Removed: subscriptiondomain.Sorted(delta.ToRemove), Current: desired}, nil
}

type fakeProfileService struct {
	telegramID *int64
	getCalls   int
}

func (f *fakeProfileService) Get(ctx context.Context, userID snowflake.ID) (*profiledomain.Profile, error) {
	f.getCalls++
	return &profiledomain.Profile{UserID: userID, TelegramUserID: f.telegramID}, nil
}

func (f *fakeProfileService) SetNotificationID(ctx context.Context, userID snowflake.ID, raw string) (*profiledomain.Profile, error) {
	id, err := profiledomain.ParseNotificationID(raw)
	if err != nil {
		return nil, err
	}
	f.telegramID = &id
	return &profiledomain.Profile{UserID: userID, TelegramUserID: &id}, nil
}

type fakeAuthz struct{}

func (fakeAuthz) Authorize(ctx context.Context, actor authorization.Actor, object string, action string) error {
	if actor.Role != authdomain.RoleAdmin {
		return authorization.ErrForbidden
	}
	return nil
}

type fakeLimiter struct {
	deny bool
}

func (f *fakeLimiter) AllowSignIn(ctx context.Context, clientIP string) (*ratelimit.RateLimitResult, error) {
	return &ratelimit.RateLimitResult{Allowed: !f.deny, RetryAfter: 3 * time.Second}, nil
}

func (f *fakeLimiter) AllowSignUp(ctx context.Context, clientIP string) (*ratelimit.RateLimitResult, error) {
	return f.AllowSignIn(ctx, clientIP)
}

type testServer struct {
	srv           *Server
	auth          *fakeAuthService
	keywords      *fakeKeywordService
	milestones    *fakeMilestoneService
	subscriptions *fakeSubscriptionService
	profiles      *fakeProfileService
	limiter       *fakeLimiter
	caches        *cache.Registry
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerWithConfig(t, config.Config{})
}

func newTestServerWithConfig(t *testing.T, cfg config.Config) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	httpMetrics, err := obsmetrics.NewHTTPMetricsWithRegisterer(prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("http metrics: %v", err)
	}

	clk := clock.New()
	ts := &testServer{
		auth: &fakeAuthService{},
		keywords: &fakeKeywordService{items: []keyworddomain.Keyword{
			{ID: snowflake.ID(1), Name: "Carrot"},
			{ID: snowflake.ID(2), Name: "Mango"},
			{ID: snowflake.ID(3), Name: "Master Sprinkler"},
		}},
		milestones:    &fakeMilestoneService{limit: 2},
		subscriptions: &fakeSubscriptionService{current: []snowflake.ID{2}, limit: 2},
		profiles:      &fakeProfileService{},
		limiter:       &fakeLimiter{},
		caches:        cache.NewRegistry(config.NewStaticPolicyHolder(config.DefaultPolicy()), clk, zap.NewNop()),
	}

	ts.srv = newServer(ServerParams{
		Gin:             NewEngine(observability.Config{}, httpMetrics),
		Cfg:             cfg,
		Log:             zap.NewNop(),
		Authsvc:         ts.auth,
		Sessions:        session.NewManager(cfg, clk),
		Caches:          ts.caches,
		AuthzSvc:        fakeAuthz{},
		KeywordSvc:      ts.keywords,
		MilestoneSvc:    ts.milestones,
		SubscriptionSvc: ts.subscriptions,
		ProfileSvc:      ts.profiles,
	}, ts.limiter)
	return ts
}

func (ts *testServer) do(method, path, body, contentType string, signedIn bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if signedIn {
		req.AddCookie(&http.Cookie{Name: session.DefaultCookieName, Value: validToken})
	}
	rec := httptest.NewRecorder()
	ts.srv.Engine().ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) form(path, body string, signedIn bool) *httptest.ResponseRecorder {
	return ts.do(http.MethodPost, path, body, "application/x-www-form-urlencoded", signedIn)
}

func (ts *testServer) json(method, path, body string, signedIn bool) *httptest.ResponseRecorder {
	return ts.do(method, path, body, "application/json", signedIn)
}

func responseCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}

// flashFrom decodes the flash cookie set on a redirect.
func flashFrom(t *testing.T, rec *httptest.ResponseRecorder) flash {
	t.Helper()
	ck := responseCookie(rec, flashCookieName)
	if ck == nil {
		t.Fatalf("expected flash cookie")
	}
	f := decodeFlash(ck.Value)
	if f == nil {
		t.Fatalf("flash cookie did not decode")
	}
	return *f
}
