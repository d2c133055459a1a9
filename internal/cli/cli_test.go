package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"issue-tracking/internal/config"
	"issue-tracking/internal/database"
	"issue-tracking/internal/models"
	"issue-tracking/internal/repository/sqlrepo"
	"issue-tracking/internal/utils"
)

func TestRootCommandHasSubcommands(t *testing.T) {
	cmd := NewRootCommand()
	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"serve", "migrate", "create-user"})
}

func TestMigrateThenCreateUser(t *testing.T) {
	utils.BcryptCost = bcrypt.MinCost
	dsn := filepath.Join(t.TempDir(), "tracker.db")
	t.Setenv("DB_DRIVER", "sqlite3")
	t.Setenv("DB_DSN", dsn)
	t.Setenv("APP_ENV", "test")

	cmd := NewRootCommand()
	cmd.SetArgs([]string{"migrate"})
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	var out bytes.Buffer
	cmd = NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"create-user", "--email", "admin@tracker.test", "--password", "changeme",
		"--first-name", "Ada", "--last-name", "Admin", "--role", "ADMIN"})
	require.NoError(t, cmd.ExecuteContext(context.Background()))
	id := strings.TrimSpace(out.String())
	require.NotEmpty(t, id)

	ctx := context.Background()
	db, err := database.Open(ctx, config.Config{DBDriver: "sqlite3", DBURL: dsn})
	require.NoError(t, err)
	defer db.Close()
	u, err := sqlrepo.NewUserRepo(db).GetByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "ADMIN", string(u.Role))

	cmd = NewRootCommand()
	cmd.SetArgs([]string{"create-user", "--email", "x@tracker.test", "--password", "changeme",
		"--first-name", "X", "--last-name", "Y", "--role", "ROOT"})
	assert.Error(t, cmd.ExecuteContext(context.Background()))
}

func TestCreateUserValidatesCompany(t *testing.T) {
	utils.BcryptCost = bcrypt.MinCost
	dsn := filepath.Join(t.TempDir(), "tracker.db")
	t.Setenv("DB_DRIVER", "sqlite3")
	t.Setenv("DB_DSN", dsn)
	t.Setenv("APP_ENV", "test")

	cmd := NewRootCommand()
	cmd.SetArgs([]string{"migrate"})
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	ctx := context.Background()
	db, err := database.Open(ctx, config.Config{DBDriver: "sqlite3", DBURL: dsn})
	require.NoError(t, err)
	defer db.Close()
	acme := &models.Company{Name: "Acme"}
	require.NoError(t, sqlrepo.NewCompanyRepo(db).Create(ctx, acme))

	createClient := func(email, company string) (string, error) {
		var out bytes.Buffer
		cmd := NewRootCommand()
		cmd.SetOut(&out)
		cmd.SetArgs([]string{"create-user", "--email", email, "--password", "changeme",
			"--first-name", "C", "--last-name", "L", "--role", "CLIENT", "--company", company})
		err := cmd.ExecuteContext(context.Background())
		return strings.TrimSpace(out.String()), err
	}

	_, err = createClient("ghost@acme.test", "6f1c2b0e-3d4a-4b8e-9a51-1f2e3d4c5b6a")
	assert.Error(t, err)
	_, err = createClient("junk@acme.test", "acme")
	assert.Error(t, err)

	id, err := createClient("cora@acme.test", strings.ToUpper(acme.ID))
	require.NoError(t, err)
	u, err := sqlrepo.NewUserRepo(db).GetByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, acme.ID, u.Company)
}
