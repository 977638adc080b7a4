//go:build integration

package db

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/notifyhub/internal/notification/entity"
	"github.com/shandysiswandi/notifyhub/internal/pkg/goerror"
	"github.com/shandysiswandi/notifyhub/internal/pkg/instrument"
	"github.com/shandysiswandi/notifyhub/internal/pkg/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const seed = `
INSERT INTO organisations (id, name) VALUES ('org1', 'Org One');
INSERT INTO organisation_units (id, organisation_id, name) VALUES ('u1', 'org1', 'Unit One'), ('u2', 'org1', 'Unit Two');
INSERT INTO users (id, identity_id) VALUES ('o1', 'io1'), ('c1', 'ic1'), ('q1', 'iq1'), ('q2', 'iq2'), ('s1', 'is1');
INSERT INTO users (id, identity_id, deleted_at) VALUES ('gone', 'igone', now());
INSERT INTO user_roles (id, user_id, role, organisation_id, organisation_unit_id, created_at) VALUES
	('ro1', 'o1', 'INNOVATOR', NULL, NULL, now() - interval '3 day'),
	('rc1', 'c1', 'INNOVATOR', NULL, NULL, now() - interval '3 day'),
	('rq1', 'q1', 'QUALIFYING_ACCESSOR', 'org1', 'u1', now() - interval '2 day'),
	('rq2', 'q2', 'QUALIFYING_ACCESSOR', 'org1', 'u2', now() - interval '2 day'),
	('rs1', 's1', 'ASSESSMENT', NULL, NULL, now() - interval '1 day'),
	('rgone', 'gone', 'ASSESSMENT', NULL, NULL, now());
INSERT INTO innovations (id, name, owner_id) VALUES ('i1', 'Kit', 'o1');
INSERT INTO innovations (id, name, owner_id, deleted_at) VALUES ('i2', 'Old', 'o1', now());
INSERT INTO innovation_collaborators (id, innovation_id, email, user_id, status) VALUES
	('col1', 'i1', 'c1@example.test', 'c1', 'ACTIVE'),
	('col9', 'i1', 'new@example.test', NULL, 'INVITED');
INSERT INTO innovation_threads (id, innovation_id, subject, author_id, author_user_role_id) VALUES ('t1', 'i1', 'Hello', 'o1', 'ro1');
INSERT INTO innovation_thread_messages (id, thread_id, author_id, author_user_role_id, created_at) VALUES
	('m1', 't1', 'q1', 'rq1', now() - interval '1 hour'),
	('m2', 't1', 'o1', 'ro1', now());
INSERT INTO innovation_supports (id, innovation_id, organisation_unit_id, status, updated_at) VALUES
	('sup1', 'i1', 'u1', 'ENGAGING', now() - interval '40 day'),
	('sup2', 'i1', 'u2', 'ENGAGING', now());
INSERT INTO innovation_support_accessors (support_id, user_role_id) VALUES ('sup1', 'rq1');
`

func newTestDB(t *testing.T) *DB {
	t.Helper()
	ctx := context.Background()

	ctr, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("notifyhub"),
		postgres.WithUsername("notifyhub"),
		postgres.WithPassword("notifyhub"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		),
	)
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	db := NewDB(pool, instrument.NewNoop(), 0)
	require.NoError(t, db.Migrate(ctx))
	_, err = pool.Exec(ctx, seed)
	require.NoError(t, err)

	return db
}

func TestDB_Directory(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	t.Run("innovation honours soft delete", func(t *testing.T) {
		_, err := db.GetInnovation(ctx, "i2", false)
		assert.ErrorIs(t, err, goerror.ErrNotFound)

		got, err := db.GetInnovation(ctx, "i2", true)
		require.NoError(t, err)
		assert.NotNil(t, got.DeletedAt)
		assert.Equal(t, "io1", got.OwnerIdentityID)
	})

	t.Run("owner and collaborators", func(t *testing.T) {
		owner, err := db.GetInnovationOwner(ctx, "i1")
		require.NoError(t, err)
		assert.Equal(t, "ro1", owner.RoleID)
		assert.True(t, owner.IsActive)

		list, err := db.ListActiveCollaborators(ctx, "i1")
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "rc1", list[0].RoleID)
	})

	t.Run("qualifying accessors follow unit order", func(t *testing.T) {
		list, err := db.ListUnitQualifyingAccessors(ctx, []string{"u2", "u1"})
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "rq2", list[0].RoleID)
		assert.Equal(t, "u1", list[1].OrganisationUnitID)
	})

	t.Run("soft deleted user is inactive", func(t *testing.T) {
		list, err := db.ListAssessmentUsers(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.True(t, list[0].IsActive)
		assert.False(t, list[1].IsActive)
	})

	t.Run("users narrowed by role", func(t *testing.T) {
		list, err := db.ListRecipientsByUserIDs(ctx, []string{"q1", "o1"}, []entity.Role{entity.RoleInnovator})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "ro1", list[0].RoleID)
	})

	t.Run("thread intervenients once each", func(t *testing.T) {
		th, err := db.GetThread(ctx, "t1")
		require.NoError(t, err)
		assert.Equal(t, entity.RoleInnovator, th.AuthorRole)

		list, err := db.ListThreadIntervenients(ctx, "t1")
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "ro1", list[0].RoleID)
		assert.Equal(t, "rq1", list[1].RoleID)
	})

	t.Run("unregistered collaborator", func(t *testing.T) {
		got, err := db.GetCollaborator(ctx, "col9")
		require.NoError(t, err)
		assert.Empty(t, got.UserID)
		assert.Equal(t, entity.CollaboratorStatusInvited, got.Status)
	})

	t.Run("idle supports", func(t *testing.T) {
		list, err := db.ListIdleSupports(ctx)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "sup1", list[0].SupportID)
		require.Len(t, list[0].Accessors, 1)
		assert.Equal(t, "rq1", list[0].Accessors[0].RoleID)
	})

	t.Run("missing organisation unit", func(t *testing.T) {
		_, err := db.GetOrganisationUnitName(ctx, "nope")
		assert.ErrorIs(t, err, goerror.ErrNotFound)
	})
}

func TestDB_Inbox(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	n := entity.Notification{
		ID:            100,
		ContextType:   entity.ContextTypeThread,
		ContextDetail: entity.TplTH03NewThreadMessage,
		ContextID:     "t1",
		InnovationID:  "i1",
		Params:        valueobject.JSONMap{"thread_subject": "Hello"},
		CreatedBy:     "q1",
		CreatedAt:     now,
	}
	users := []entity.NotificationUser{
		{ID: 101, NotificationID: 100, UserRoleID: "ro1", CreatedBy: "q1"},
		{ID: 102, NotificationID: 100, UserRoleID: "rc1", CreatedBy: "q1"},
	}
	id, created, err := db.SaveInAppNotification(ctx, n, users)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, int64(100), id)

	t.Run("duplicate id rolls back", func(t *testing.T) {
		_, _, err := db.SaveInAppNotification(ctx, n, users)
		assert.ErrorIs(t, err, goerror.ErrConflict)
	})

	t.Run("repeated dispatch key keeps the first row", func(t *testing.T) {
		keyed := n
		keyed.ID, keyed.ContextID, keyed.DispatchKey = 200, "t2", "e1:0"
		first := []entity.NotificationUser{{ID: 201, NotificationID: 200, UserRoleID: "rx1", CreatedBy: "q1"}}
		id, created, err := db.SaveInAppNotification(ctx, keyed, first)
		require.NoError(t, err)
		require.True(t, created)
		require.Equal(t, int64(200), id)

		keyed.ID = 300
		again := []entity.NotificationUser{{ID: 301, NotificationID: 300, UserRoleID: "rx1", CreatedBy: "q1"}}
		id, created, err = db.SaveInAppNotification(ctx, keyed, again)
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, int64(200), id)

		items, err := db.ListInbox(ctx, entity.InboxFilter{RoleID: "rx1", Status: entity.InboxStatusAll, Limit: 10})
		require.NoError(t, err)
		assert.Len(t, items, 1)
	})

	t.Run("list and count", func(t *testing.T) {
		items, err := db.ListInbox(ctx, entity.InboxFilter{RoleID: "ro1", Status: entity.InboxStatusUnread, Limit: 10})
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Hello", items[0].Params["thread_subject"])

		counters, err := db.CountUnreadInbox(ctx, "ro1")
		require.NoError(t, err)
		assert.Equal(t, []entity.InboxCounter{{ContextType: entity.ContextTypeThread, Unread: 1}}, counters)
	})

	t.Run("mark read keeps first time", func(t *testing.T) {
		found, err := db.MarkInboxRead(ctx, "ro1", 100, now)
		require.NoError(t, err)
		assert.True(t, found)

		found, err = db.MarkInboxRead(ctx, "ro1", 100, now.Add(time.Hour))
		require.NoError(t, err)
		assert.True(t, found)

		items, err := db.ListInbox(ctx, entity.InboxFilter{RoleID: "ro1", Status: entity.InboxStatusRead, Limit: 10})
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.True(t, now.Equal(*items[0].ReadAt))
	})

	t.Run("mark all and delete", func(t *testing.T) {
		affected, err := db.MarkInboxReadAll(ctx, "rc1", now)
		require.NoError(t, err)
		assert.Equal(t, int64(1), affected)

		found, err := db.SoftDeleteInbox(ctx, "rc1", 100, now)
		require.NoError(t, err)
		assert.True(t, found)

		found, err = db.SoftDeleteInbox(ctx, "rc1", 100, now)
		require.NoError(t, err)
		assert.False(t, found)
	})
}

func TestDB_Preferences(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	err := db.UpsertPreferences(ctx, "rq1", []entity.Preference{
		{Category: entity.CategoryMessage, Setting: entity.SettingDaily},
		{Category: entity.CategoryAction, Setting: entity.SettingNever},
	})
	require.NoError(t, err)

	err = db.UpsertPreferences(ctx, "rq1", []entity.Preference{
		{Category: entity.CategoryAction, Setting: entity.SettingInstantly},
	})
	require.NoError(t, err)

	got, err := db.ListPreferences(ctx, "rq1")
	require.NoError(t, err)
	assert.Equal(t, []entity.Preference{
		{RoleID: "rq1", Category: entity.CategoryAction, Setting: entity.SettingInstantly},
		{RoleID: "rq1", Category: entity.CategoryMessage, Setting: entity.SettingDaily},
	}, got)

	digest, err := db.ListDigestRecipients(ctx, entity.CategoryMessage)
	require.NoError(t, err)
	require.Len(t, digest, 1)
	assert.Equal(t, "rq1", digest[0].RoleID)
}
