package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerworks/analyst-api/internal/adapters/driven/storage/memory"
	"github.com/ledgerworks/analyst-api/internal/core/domain"
	"github.com/ledgerworks/analyst-api/internal/core/services"
)

// textExtractor returns the upload bytes as text, standing in for the PDF
// parser so handler tests can use plain payloads.
type textExtractor struct{}

func (textExtractor) Extract(_ context.Context, raw []byte) (string, error) {
	return string(raw), nil
}

// testEnv wires the full service stack over memory stores behind a test
// HTTP server.
type testEnv struct {
	server *httptest.Server
	users  *memory.UserStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	users := memory.NewUserStore()
	access := memory.NewAccessStore()
	companies := memory.NewCompanyStore()
	docs := memory.NewDocumentStore()

	accessSvc := services.NewAccessService(users, access, companies)
	srv := New(Deps{
		Auth:      services.NewAuthService(users),
		Access:    accessSvc,
		Companies: services.NewCompanyService(companies, users, access, docs, accessSvc),
		Ingestion: services.NewIngestionService(accessSvc, textExtractor{}, docs),
		Queries:   services.NewQueryService(accessSvc, docs, companies),
	})

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return &testEnv{server: ts, users: users}
}

// seedUser stores a user directly and returns the matching API token.
func (e *testEnv) seedUser(t *testing.T, id string, role domain.Role) string {
	t.Helper()
	require.NoError(t, e.users.Save(context.Background(), domain.User{
		ID:        id,
		Username:  "user-" + id,
		Password:  "secret",
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}))
	return "user-" + id
}

// do sends a request and decodes the JSON response into out when non-nil.
func (e *testEnv) do(t *testing.T, method, path, token string, body any, out any) int {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, e.server.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("X-Token", token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	var body map[string]string
	status := env.do(t, http.MethodGet, "/health", "", nil, &body)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
}

func TestSeedAdminAndLogin(t *testing.T) {
	env := newTestEnv(t)

	var seeded map[string]string
	status := env.do(t, http.MethodPost, "/seed/admin", "", nil, &seeded)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "admin created", seeded["message"])

	// Seeding again reports the existing account.
	status = env.do(t, http.MethodPost, "/seed/admin", "", nil, &seeded)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "admin already exists", seeded["message"])

	var login map[string]string
	status = env.do(t, http.MethodPost, "/login", "",
		map[string]string{"username": "admin", "password": "admin"}, &login)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "group_admin", login["role"])
	assert.Equal(t, "user-"+login["user_id"], login["token"])
}

func TestLogin_BadCredentials(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodPost, "/seed/admin", "", nil, nil)

	status := env.do(t, http.MethodPost, "/login", "",
		map[string]string{"username": "admin", "password": "wrong"}, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestProtectedRoutes_RequireToken(t *testing.T) {
	env := newTestEnv(t)

	status := env.do(t, http.MethodGet, "/companies", "", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status = env.do(t, http.MethodGet, "/companies", "user-ghost", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status = env.do(t, http.MethodGet, "/companies", "garbage", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestCreateAndListCompanies(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, "a1", domain.RoleGroupAdmin)

	var created map[string]string
	status := env.do(t, http.MethodPost, "/companies", admin,
		map[string]string{"name": "Acme"}, &created)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "created", created["message"])
	assert.Equal(t, "Acme", created["name"])

	// Creating the same name again returns the existing row.
	var dup map[string]string
	status = env.do(t, http.MethodPost, "/companies", admin,
		map[string]string{"name": "Acme"}, &dup)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "already exists", dup["message"])
	assert.Equal(t, created["id"], dup["id"])

	var list []companyResponse
	status = env.do(t, http.MethodGet, "/companies", admin, nil, &list)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, list, 1)
	assert.Equal(t, "Acme", list[0].Name)
}

func TestCreateCompany_AnalystForbidden(t *testing.T) {
	env := newTestEnv(t)
	analyst := env.seedUser(t, "u1", domain.RoleAnalyst)

	status := env.do(t, http.MethodPost, "/companies", analyst,
		map[string]string{"name": "Acme"}, nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestListCompanies_ScopedForAnalyst(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, "a1", domain.RoleGroupAdmin)
	analyst := env.seedUser(t, "u1", domain.RoleAnalyst)

	var acme map[string]string
	env.do(t, http.MethodPost, "/companies", admin, map[string]string{"name": "Acme"}, &acme)
	env.do(t, http.MethodPost, "/companies", admin, map[string]string{"name": "Globex"}, nil)

	var list []companyResponse
	status := env.do(t, http.MethodGet, "/companies", analyst, nil, &list)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, list)

	status = env.do(t, http.MethodPost, "/grant-access", admin,
		map[string]string{"user_id": "u1", "company_id": acme["id"]}, nil)
	require.Equal(t, http.StatusOK, status)

	status = env.do(t, http.MethodGet, "/companies", analyst, nil, &list)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, list, 1)
	assert.Equal(t, "Acme", list[0].Name)
}

func TestGrantAccess_AnalystForbidden(t *testing.T) {
	env := newTestEnv(t)
	analyst := env.seedUser(t, "u1", domain.RoleAnalyst)
	env.seedUser(t, "u2", domain.RoleAnalyst)

	status := env.do(t, http.MethodPost, "/grant-access", analyst,
		map[string]string{"user_id": "u2", "company_id": "c1"}, nil)
	assert.Equal(t, http.StatusForbidden, status)
}

// uploadPDF posts a multipart payload to /ingest-pdf.
func (e *testEnv) uploadPDF(t *testing.T, token, companyID, filename string, content []byte) (int, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("company_id", companyID))

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	header.Set("Content-Type", "application/pdf")
	fw, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, e.server.URL+"/ingest-pdf", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("X-Token", token)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestIngestAndAsk(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, "a1", domain.RoleGroupAdmin)

	var acme map[string]string
	env.do(t, http.MethodPost, "/companies", admin, map[string]string{"name": "Acme"}, &acme)

	status, body := env.uploadPDF(t, admin, acme["id"], "report.pdf",
		[]byte("Revenue grew 12 percent. Margins held steady."))
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "uploaded and chunked", body["message"])
	assert.Equal(t, acme["id"], body["company_id"])
	assert.Equal(t, float64(1), body["num_chunks"])

	var answer map[string]any
	status = env.do(t, http.MethodPost, "/ask", admin,
		map[string]string{"question": "revenue growth", "company_id": acme["id"]}, &answer)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Here are the most relevant sections for: 'revenue growth'", answer["answer"])
	assert.Contains(t, answer["context"], "Revenue grew")
	assert.Equal(t, float64(1), answer["chunks_used"])
}

func TestIngest_MissingFile(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, "a1", domain.RoleGroupAdmin)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("company_id", "c1"))
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, env.server.URL+"/ingest-pdf", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("X-Token", admin)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAsk_NoDocuments(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, "a1", domain.RoleGroupAdmin)

	var acme map[string]string
	env.do(t, http.MethodPost, "/companies", admin, map[string]string{"name": "Acme"}, &acme)

	status := env.do(t, http.MethodPost, "/ask", admin,
		map[string]string{"question": "anything", "company_id": acme["id"]}, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestAsk_ForbiddenWithoutGrant(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, "a1", domain.RoleGroupAdmin)
	analyst := env.seedUser(t, "u1", domain.RoleAnalyst)

	var acme map[string]string
	env.do(t, http.MethodPost, "/companies", admin, map[string]string{"name": "Acme"}, &acme)
	env.uploadPDF(t, admin, acme["id"], "report.pdf", []byte("Quarterly figures."))

	status := env.do(t, http.MethodPost, "/ask", analyst,
		map[string]string{"question": "figures", "company_id": acme["id"]}, nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestAsk_RedactsOtherTenants(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, "a1", domain.RoleGroupAdmin)

	var acme, globex map[string]string
	env.do(t, http.MethodPost, "/companies", admin, map[string]string{"name": "Acme"}, &acme)
	env.do(t, http.MethodPost, "/companies", admin, map[string]string{"name": "Globex"}, &globex)
	env.uploadPDF(t, admin, acme["id"], "report.pdf",
		[]byte("Acme outperformed Globex this quarter."))

	var answer map[string]any
	status := env.do(t, http.MethodPost, "/ask", admin,
		map[string]string{"question": "outperformed", "company_id": acme["id"]}, &answer)
	require.Equal(t, http.StatusOK, status)

	context, ok := answer["context"].(string)
	require.True(t, ok)
	assert.Contains(t, context, "Acme outperformed")
	assert.NotContains(t, context, "Globex")
	assert.Contains(t, context, "[REDACTED]")
}

func TestListDocuments(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, "a1", domain.RoleGroupAdmin)

	var acme map[string]string
	env.do(t, http.MethodPost, "/companies", admin, map[string]string{"name": "Acme"}, &acme)
	env.uploadPDF(t, admin, acme["id"], "q1.pdf", []byte("First quarter."))
	env.uploadPDF(t, admin, acme["id"], "q2.pdf", []byte("Second quarter."))

	var docs []documentResponse
	path := fmt.Sprintf("/companies/%s/documents", acme["id"])
	status := env.do(t, http.MethodGet, path, admin, nil, &docs)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, docs, 2)
	for _, doc := range docs {
		assert.True(t, strings.HasSuffix(doc.Filename, ".pdf"))
		assert.Equal(t, "application/pdf", doc.ContentType)
	}
}

func TestRateLimit(t *testing.T) {
	srv := New(Deps{}, WithRateLimit(1, 2))
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	var last int
	for i := 0; i < 5; i++ {
		resp, err := http.Get(ts.URL + "/health")
		require.NoError(t, err)
		resp.Body.Close()
		last = resp.StatusCode
	}
	assert.Equal(t, http.StatusTooManyRequests, last)
}
