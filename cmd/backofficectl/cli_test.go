package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/techvibe/backoffice/internal/config"
	"github.com/techvibe/backoffice/internal/container"
	"github.com/techvibe/backoffice/internal/domain/entity"
)

const cliSecret = "cli-test-secret-0123456789"

type cliEnv struct {
	dir        string
	configPath string
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	dir := t.TempDir()
	cfg := "database:\n  path: " + filepath.Join(dir, "backoffice.db") + "\n" +
		"auth:\n  jwt_secret: " + cliSecret + "\n" +
		"storage:\n  export_dir: " + filepath.Join(dir, "exports") + "\n"
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0644))
	return &cliEnv{dir: dir, configPath: path}
}

func (e *cliEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", e.configPath, "--env", ""}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

// seed writes data through the same container the CLI uses
func (e *cliEnv) seed(t *testing.T, fn func(ctx context.Context, c *container.Container)) {
	t.Helper()
	cfg, err := config.LoadWithEnv(e.configPath, "")
	require.NoError(t, err)
	c, err := container.NewContainer(cfg, zap.NewNop(), container.WithoutWorkers())
	require.NoError(t, err)
	require.NoError(t, c.Start(context.Background()))
	defer c.Close()
	fn(context.Background(), c)
}

func TestMigrate(t *testing.T) {
	env := newCLIEnv(t)

	out, err := env.run(t, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "applied 2 migration(s)")

	out, err = env.run(t, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "applied 0 migration(s)")
}

func TestSequenceNext(t *testing.T) {
	env := newCLIEnv(t)

	out, err := env.run(t, "sequence", "next", "invoice")
	require.NoError(t, err)
	assert.Equal(t, "INV-0001", strings.TrimSpace(out))

	// inspecting does not consume a number
	out, err = env.run(t, "sequence", "next", "quotations")
	require.NoError(t, err)
	assert.Equal(t, "QUO-0001", strings.TrimSpace(out))
	out, err = env.run(t, "sequence", "next", "quotation")
	require.NoError(t, err)
	assert.Equal(t, "QUO-0001", strings.TrimSpace(out))

	_, err = env.run(t, "sequence", "next", "receipt")
	require.Error(t, err)
	assert.ErrorIs(t, err, entity.ErrInvalidKind)
}

func TestClientsSearch(t *testing.T) {
	env := newCLIEnv(t)
	env.seed(t, func(ctx context.Context, c *container.Container) {
		require.NoError(t, c.Services().Clients.Create(ctx, &entity.Client{Name: "Acme Ltd", Email: "ops@acme.test", Company: "Acme"}))
		require.NoError(t, c.Services().Clients.Create(ctx, &entity.Client{Name: "Rahim Uddin", Email: "rahim@example.com"}))
	})

	out, err := env.run(t, "clients", "search", "acme")
	require.NoError(t, err)
	assert.Contains(t, out, "Acme Ltd")
	assert.NotContains(t, out, "Rahim")

	out, err = env.run(t, "clients", "search", "nobody")
	require.NoError(t, err)
	assert.Contains(t, out, `no client matches "nobody"`)
}

func TestExport(t *testing.T) {
	env := newCLIEnv(t)
	var id int64
	env.seed(t, func(ctx context.Context, c *container.Container) {
		doc, err := c.Services().Documents.Save(ctx, &entity.Document{
			Kind:           entity.KindInvoice,
			ClientSnapshot: entity.ClientSnapshot{Name: "Acme Ltd"},
			IssueDate:      time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			Items:          []entity.LineItem{{Description: "Website", Quantity: 1, UnitPrice: 1500}},
		})
		require.NoError(t, err)
		id = doc.ID
	})

	pdfPath := filepath.Join(env.dir, "out.pdf")
	out, err := env.run(t, "export", "invoice", "1", "--out", pdfPath)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote "+pdfPath)
	data, err := os.ReadFile(pdfPath)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
	assert.Equal(t, int64(1), id)

	xlsxPath := filepath.Join(env.dir, "out.xlsx")
	_, err = env.run(t, "export", "invoice", "1", "-f", "xlsx", "-o", xlsxPath)
	require.NoError(t, err)
	assert.FileExists(t, xlsxPath)

	_, err = env.run(t, "export", "invoice", "99", "--out", filepath.Join(env.dir, "missing.pdf"))
	require.Error(t, err)
	assert.ErrorIs(t, err, entity.ErrNotFound)

	_, err = env.run(t, "export", "invoice", "abc")
	assert.Error(t, err)
}

func TestToken(t *testing.T) {
	env := newCLIEnv(t)

	out, err := env.run(t, "token", "alice@techvibe.example", "--role", "editor", "--ttl", "1h")
	require.NoError(t, err)

	parsed, err := jwt.Parse(strings.TrimSpace(out), func(tok *jwt.Token) (interface{}, error) {
		return []byte(cliSecret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	require.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, "editor", claims["role"])
	assert.Equal(t, "alice@techvibe.example", claims["sub"])

	_, err = env.run(t, "token", "bob", "--role", "viewer")
	assert.Error(t, err)
}

func TestMissingSecret(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database:\n  path: "+filepath.Join(dir, "x.db")+"\n"), 0644))
	t.Setenv("BACKOFFICE_JWT_SECRET", "")

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", path, "--env", "", "sequence", "next", "invoice"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt_secret")
}
