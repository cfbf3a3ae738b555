/*
Package sqlite implements every collaborator store of the leave core on
SQLite.

INTERFACES IMPLEMENTED:
  leave.PolicyStore        policy rows
  leave.UserSettingsStore  per-user employment settings
  leave.RequestStore       leave requests + atomic status transitions
  leave.BalanceStore       per-(user, year) snapshot rows
  leave.WorkedHoursSource  externally tracked work duration
  leave.UserDirectory      user rows
  settings.Store           raw system-setting rows

CONCURRENCY:
  The database is opened with WAL and guarded by a sync.RWMutex. The
  status transition is a single conditional UPDATE (status must still
  equal the expected source state), so racing approvers resolve to
  exactly one winner even without the mutex.

SCHEMA:
  Created on New(). Decimal day amounts are stored as TEXT to avoid
  float drift; dates as YYYY-MM-DD; timestamps as RFC3339.
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/mmind-zeno/LieTimeOffBundle/calendar"
	"github.com/mmind-zeno/LieTimeOffBundle/leave"
)

// Store implements all storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New opens (or creates) the database at path and migrates the schema.
// Use ":memory:" for an in-memory database.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection: the store serializes writes anyway, and a pool
	// would give ":memory:" databases a connection-per-database surprise.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS leave_policies (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT,
		annual_days TEXT NOT NULL,
		max_carryover TEXT NOT NULL,
		is_default INTEGER NOT NULL DEFAULT 0,
		is_active INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_policies_default_active
		ON leave_policies(is_default, is_active);

	CREATE TABLE IF NOT EXISTS user_leave_settings (
		user_id TEXT PRIMARY KEY,
		employment_type TEXT NOT NULL DEFAULT 'fulltime',
		contracted_hours_per_week TEXT,
		working_time_percentage TEXT NOT NULL DEFAULT '100',
		external_time_tracking INTEGER NOT NULL DEFAULT 0,
		policy_id TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS leave_requests (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		type TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		days TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		comment TEXT,
		rejection_reason TEXT,
		approved_by TEXT,
		approved_at TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_requests_user ON leave_requests(user_id);
	CREATE INDEX IF NOT EXISTS idx_requests_status ON leave_requests(status);
	-- Hot path: per-user overlap checks and year aggregation
	CREATE INDEX IF NOT EXISTS idx_requests_user_status_dates
		ON leave_requests(user_id, status, start_date, end_date);

	CREATE TABLE IF NOT EXISTS leave_balances (
		user_id TEXT NOT NULL,
		year INTEGER NOT NULL,
		policy_id TEXT,
		annual_entitlement TEXT NOT NULL DEFAULT '0',
		carryover TEXT NOT NULL DEFAULT '0',
		taken TEXT NOT NULL DEFAULT '0',
		approved TEXT NOT NULL DEFAULT '0',
		manual_adjustment TEXT NOT NULL DEFAULT '0',
		adjustment_note TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (user_id, year)
	);

	CREATE TABLE IF NOT EXISTS system_settings (
		setting_key TEXT PRIMARY KEY,
		setting_value TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		is_active INTEGER NOT NULL DEFAULT 1
	);

	CREATE TABLE IF NOT EXISTS worked_hours (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id TEXT NOT NULL,
		begin_at TEXT NOT NULL,
		duration_seconds INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_worked_hours_user_begin
		ON worked_hours(user_id, begin_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// POLICY STORE (leave.PolicyStore interface)
// =============================================================================

const policyColumns = `id, name, description, annual_days, max_carryover, is_default, is_active, created_at, updated_at`

func (s *Store) Policy(ctx context.Context, id leave.PolicyID) (*leave.Policy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT `+policyColumns+` FROM leave_policies WHERE id = ?`, id)
	p, err := scanPolicy(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("policy %s: %w", id, leave.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// DefaultPolicy picks the active default; lowest id wins when several
// rows are flagged default.
func (s *Store) DefaultPolicy(ctx context.Context) (*leave.Policy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT `+policyColumns+` FROM leave_policies
		 WHERE is_default = 1 AND is_active = 1
		 ORDER BY id ASC LIMIT 1`)
	p, err := scanPolicy(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Store) ListPolicies(ctx context.Context, activeOnly bool) ([]leave.Policy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT ` + policyColumns + ` FROM leave_policies`
	if activeOnly {
		query += ` WHERE is_active = 1`
	}
	query += ` ORDER BY name ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var policies []leave.Policy
	for rows.Next() {
		p, err := scanPolicy(rows)
		if err != nil {
			return nil, err
		}
		policies = append(policies, *p)
	}
	return policies, rows.Err()
}

func (s *Store) SavePolicy(ctx context.Context, p *leave.Policy) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO leave_policies (id, name, description, annual_days, max_carryover, is_default, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			annual_days = excluded.annual_days,
			max_carryover = excluded.max_carryover,
			is_default = excluded.is_default,
			is_active = excluded.is_active,
			updated_at = excluded.updated_at`,
		p.ID, p.Name, p.Description, p.AnnualDays.String(), p.MaxCarryover.String(),
		boolToInt(p.Default), boolToInt(p.Active), now, now,
	)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPolicy(row rowScanner) (*leave.Policy, error) {
	var (
		p                    leave.Policy
		description          sql.NullString
		annualDays           string
		maxCarryover         string
		isDefault, isActive  int
		createdAt, updatedAt string
	)
	err := row.Scan(&p.ID, &p.Name, &description, &annualDays, &maxCarryover,
		&isDefault, &isActive, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	p.Description = description.String
	p.AnnualDays = mustDecimal(annualDays)
	p.MaxCarryover = mustDecimal(maxCarryover)
	p.Default = isDefault == 1
	p.Active = isActive == 1
	p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	p.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &p, nil
}

// =============================================================================
// USER SETTINGS STORE (leave.UserSettingsStore interface)
// =============================================================================

func (s *Store) SettingsFor(ctx context.Context, user leave.UserID) (*leave.UserSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		us              leave.UserSettings
		contractedHours sql.NullString
		percentage      string
		tracking        int
		policyID        sql.NullString
		createdAt       string
		updatedAt       string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT user_id, employment_type, contracted_hours_per_week, working_time_percentage,
		       external_time_tracking, policy_id, created_at, updated_at
		FROM user_leave_settings WHERE user_id = ?`, user,
	).Scan(&us.User, &us.EmploymentType, &contractedHours, &percentage,
		&tracking, &policyID, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if contractedHours.Valid {
		d := mustDecimal(contractedHours.String)
		us.ContractedHoursPerWeek = &d
	}
	us.WorkingTimePercentage = mustDecimal(percentage)
	us.ExternalTimeTracking = tracking == 1
	if policyID.Valid && policyID.String != "" {
		id := leave.PolicyID(policyID.String)
		us.PolicyOverride = &id
	}
	us.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	us.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &us, nil
}

func (s *Store) SaveSettings(ctx context.Context, us *leave.UserSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var contractedHours any
	if us.ContractedHoursPerWeek != nil {
		contractedHours = us.ContractedHoursPerWeek.String()
	}
	var policyID any
	if us.PolicyOverride != nil {
		policyID = string(*us.PolicyOverride)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_leave_settings (user_id, employment_type, contracted_hours_per_week,
			working_time_percentage, external_time_tracking, policy_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			employment_type = excluded.employment_type,
			contracted_hours_per_week = excluded.contracted_hours_per_week,
			working_time_percentage = excluded.working_time_percentage,
			external_time_tracking = excluded.external_time_tracking,
			policy_id = excluded.policy_id,
			updated_at = excluded.updated_at`,
		us.User, us.EmploymentType, contractedHours, us.WorkingTimePercentage.String(),
		boolToInt(us.ExternalTimeTracking), policyID, now, now,
	)
	return err
}

// =============================================================================
// REQUEST STORE (leave.RequestStore interface)
// =============================================================================

const requestColumns = `id, user_id, type, start_date, end_date, days, status,
	comment, rejection_reason, approved_by, approved_at, created_at, updated_at`

func (s *Store) CreateRequest(ctx context.Context, r *leave.Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO leave_requests (`+requestColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.User, r.Type, r.StartDate.String(), r.EndDate.String(),
		r.Days.String(), r.Status, nullString(r.Comment), nullString(r.RejectionReason),
		nil, nil,
		r.CreatedAt.UTC().Format(time.RFC3339), r.UpdatedAt.UTC().Format(time.RFC3339),
	)
	return err
}

func (s *Store) Request(ctx context.Context, id leave.RequestID) (*leave.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT `+requestColumns+` FROM leave_requests WHERE id = ?`, id)
	r, err := scanRequest(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("request %s: %w", id, leave.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// FindRequests pushes the user and status parts of the filter into SQL
// and applies the rest via the filter's reference predicate.
func (s *Store) FindRequests(ctx context.Context, f leave.RequestFilter) ([]leave.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT ` + requestColumns + ` FROM leave_requests`
	var conds []string
	var args []any
	if f.User != nil {
		conds = append(conds, "user_id = ?")
		args = append(args, *f.User)
	}
	if len(f.Statuses) > 0 {
		placeholders := strings.Repeat("?,", len(f.Statuses))
		conds = append(conds, "status IN ("+placeholders[:len(placeholders)-1]+")")
		for _, st := range f.Statuses {
			args = append(args, st)
		}
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []leave.Request
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		if f.Matches(r) {
			requests = append(requests, *r)
		}
	}
	return requests, rows.Err()
}

// TransitionStatus performs the compare-and-write in a single UPDATE.
// Approver metadata is only recorded for approve/reject targets; the
// rejection reason only for reject.
func (s *Store) TransitionStatus(ctx context.Context, id leave.RequestID, from, to leave.RequestStatus, actor leave.UserID, at time.Time, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var approvedBy, approvedAt, rejectionReason any
	if to == leave.StatusApproved || to == leave.StatusRejected {
		approvedBy = string(actor)
		approvedAt = at.UTC().Format(time.RFC3339)
	}
	if to == leave.StatusRejected && reason != "" {
		rejectionReason = reason
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE leave_requests
		SET status = ?, approved_by = ?, approved_at = ?, rejection_reason = ?, updated_at = ?
		WHERE id = ? AND status = ?`,
		to, approvedBy, approvedAt, rejectionReason,
		at.UTC().Format(time.RFC3339), id, from,
	)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}

	// Nothing updated: distinguish unknown id from a lost race.
	var count int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM leave_requests WHERE id = ?`, id).Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("request %s: %w", id, leave.ErrNotFound)
	}
	return fmt.Errorf("request %s: %w", id, leave.ErrStateConflict)
}

func scanRequest(row rowScanner) (*leave.Request, error) {
	var (
		r                        leave.Request
		startDate, endDate, days string
		comment, rejectionReason sql.NullString
		approvedBy, approvedAt   sql.NullString
		createdAt, updatedAt     string
	)
	err := row.Scan(&r.ID, &r.User, &r.Type, &startDate, &endDate, &days, &r.Status,
		&comment, &rejectionReason, &approvedBy, &approvedAt, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	r.StartDate, _ = calendar.ParseDate(startDate)
	r.EndDate, _ = calendar.ParseDate(endDate)
	r.Days = mustDecimal(days)
	r.Comment = comment.String
	r.RejectionReason = rejectionReason.String
	if approvedBy.Valid && approvedBy.String != "" {
		by := leave.UserID(approvedBy.String)
		r.ApprovedBy = &by
	}
	if approvedAt.Valid {
		if t, err := time.Parse(time.RFC3339, approvedAt.String); err == nil {
			r.ApprovedAt = &t
		}
	}
	r.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	r.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &r, nil
}

// =============================================================================
// BALANCE SNAPSHOT STORE (leave.BalanceStore interface)
// =============================================================================

const balanceColumns = `user_id, year, policy_id, annual_entitlement, carryover,
	taken, approved, manual_adjustment, adjustment_note, created_at, updated_at`

func (s *Store) Snapshot(ctx context.Context, user leave.UserID, year int) (*leave.BalanceSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT `+balanceColumns+` FROM leave_balances WHERE user_id = ? AND year = ?`,
		user, year)
	snap, err := scanSnapshot(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *Store) SaveSnapshot(ctx context.Context, snap *leave.BalanceSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO leave_balances (`+balanceColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, year) DO UPDATE SET
			policy_id = excluded.policy_id,
			annual_entitlement = excluded.annual_entitlement,
			carryover = excluded.carryover,
			taken = excluded.taken,
			approved = excluded.approved,
			manual_adjustment = excluded.manual_adjustment,
			adjustment_note = excluded.adjustment_note,
			updated_at = excluded.updated_at`,
		snap.User, snap.Year, nullString(string(snap.Policy)),
		snap.AnnualEntitlement.String(), snap.Carryover.String(),
		snap.Taken.String(), snap.Approved.String(), snap.ManualAdjustment.String(),
		nullString(snap.AdjustmentNote), now, now,
	)
	return err
}

func (s *Store) SnapshotsForYear(ctx context.Context, year int) ([]leave.BalanceSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+balanceColumns+` FROM leave_balances WHERE year = ? ORDER BY user_id ASC`,
		year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snaps []leave.BalanceSnapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, *snap)
	}
	return snaps, rows.Err()
}

func scanSnapshot(row rowScanner) (*leave.BalanceSnapshot, error) {
	var (
		snap                 leave.BalanceSnapshot
		policyID             sql.NullString
		entitlement          string
		carryover            string
		taken, approved      string
		adjustment           string
		note                 sql.NullString
		createdAt, updatedAt string
	)
	err := row.Scan(&snap.User, &snap.Year, &policyID, &entitlement, &carryover,
		&taken, &approved, &adjustment, &note, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	snap.Policy = leave.PolicyID(policyID.String)
	snap.AnnualEntitlement = mustDecimal(entitlement)
	snap.Carryover = mustDecimal(carryover)
	snap.Taken = mustDecimal(taken)
	snap.Approved = mustDecimal(approved)
	snap.ManualAdjustment = mustDecimal(adjustment)
	snap.AdjustmentNote = note.String
	snap.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	snap.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &snap, nil
}

// =============================================================================
// SYSTEM SETTINGS (settings.Store interface)
// =============================================================================

func (s *Store) Setting(ctx context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT setting_value FROM system_settings WHERE setting_key = ?`, key).Scan(&raw)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return raw, true, nil
}

func (s *Store) SaveSetting(ctx context.Context, key, raw string, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO system_settings (setting_key, setting_value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(setting_key) DO UPDATE SET
			setting_value = excluded.setting_value,
			updated_at = excluded.updated_at`,
		key, raw, updatedAt.UTC().Format(time.RFC3339),
	)
	return err
}

func (s *Store) DeleteSetting(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `DELETE FROM system_settings WHERE setting_key = ?`, key)
	return err
}

func (s *Store) AllSettings(ctx context.Context) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT setting_key, setting_value FROM system_settings`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var key, raw string
		if err := rows.Scan(&key, &raw); err != nil {
			return nil, err
		}
		out[key] = raw
	}
	return out, rows.Err()
}

// =============================================================================
// USERS (leave.UserDirectory interface)
// =============================================================================

func (s *Store) Users(ctx context.Context) ([]leave.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name FROM users WHERE is_active = 1 ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []leave.User
	for rows.Next() {
		var u leave.User
		if err := rows.Scan(&u.ID, &u.Name); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *Store) SaveUser(ctx context.Context, u leave.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, name, is_active) VALUES (?, ?, 1)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name`,
		u.ID, u.Name,
	)
	return err
}

// =============================================================================
// WORKED HOURS (leave.WorkedHoursSource interface)
// =============================================================================

// WorkedSeconds sums externally tracked duration with a begin timestamp
// in [from, to].
func (s *Store) WorkedSeconds(ctx context.Context, user leave.UserID, from, to time.Time) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total sql.NullInt64
	err := s.db.QueryRowContext(ctx, `
		SELECT SUM(duration_seconds) FROM worked_hours
		WHERE user_id = ? AND begin_at >= ? AND begin_at <= ?`,
		user, from.UTC().Format(time.RFC3339), to.UTC().Format(time.RFC3339),
	).Scan(&total)
	if err != nil {
		return 0, err
	}
	return total.Int64, nil
}

// RecordWorkedHours appends a tracked-duration row. In production the
// host time tracker owns this data; the table exists so deployments
// without one can import durations.
func (s *Store) RecordWorkedHours(ctx context.Context, user leave.UserID, begin time.Time, seconds int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO worked_hours (user_id, begin_at, duration_seconds) VALUES (?, ?, ?)`,
		user, begin.UTC().Format(time.RFC3339), seconds,
	)
	return err
}

// Helper functions

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func mustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
