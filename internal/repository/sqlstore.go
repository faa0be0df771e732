package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"wishlane-api/internal/model"
	"wishlane-api/pkg/uid"
)

type dialect string

const (
	dialectSQLite   dialect = "sqlite"
	dialectPostgres dialect = "postgres"
	dialectMySQL    dialect = "mysql"
)

// timeLayout is a fixed-width UTC layout so text timestamps sort correctly.
const timeLayout = "2006-01-02 15:04:05.000000000"

// SQLStore implements Store on database/sql. The same implementation backs
// SQLite, PostgreSQL and MySQL; queries are written with ? placeholders and
// rebound per dialect.
type SQLStore struct {
	db *sql.DB
	d  dialect
}

// q rebinds ? placeholders to $N for PostgreSQL.
func (s *SQLStore) q(query string) string {
	if s.d != dialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// createTables creates the schema. The DDL sticks to types all three
// dialects accept.
func (s *SQLStore) createTables() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS items (
			id VARCHAR(36) PRIMARY KEY,
			url TEXT NOT NULL,
			name TEXT NOT NULL,
			price TEXT,
			currency TEXT,
			images TEXT NOT NULL,
			colors TEXT NOT NULL,
			sizes TEXT NOT NULL,
			selected_size TEXT,
			selected_color TEXT,
			in_stock INTEGER NOT NULL DEFAULT 1,
			list_id VARCHAR(36),
			status VARCHAR(16) NOT NULL,
			error_message TEXT,
			store_name TEXT,
			scraper_type TEXT,
			created_at VARCHAR(40) NOT NULL,
			updated_at VARCHAR(40) NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS lists (
			id VARCHAR(36) PRIMARY KEY,
			name TEXT NOT NULL,
			icon TEXT NOT NULL,
			created_at VARCHAR(40) NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS price_history (
			id VARCHAR(36) PRIMARY KEY,
			item_id VARCHAR(36) NOT NULL,
			price TEXT NOT NULL,
			currency TEXT NOT NULL,
			recorded_at VARCHAR(40) NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS scraper_jobs (
			id VARCHAR(36) PRIMARY KEY,
			item_id VARCHAR(36) NOT NULL,
			status VARCHAR(16) NOT NULL,
			attempts INTEGER NOT NULL DEFAULT 0,
			error_message TEXT,
			created_at VARCHAR(40) NOT NULL,
			processed_at VARCHAR(40)
		)`,
		`CREATE TABLE IF NOT EXISTS activity_events (
			id VARCHAR(36) PRIMARY KEY,
			item_id VARCHAR(36) NOT NULL,
			event_type VARCHAR(32) NOT NULL,
			old_value TEXT,
			new_value TEXT,
			change_percent TEXT,
			created_at VARCHAR(40) NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS user_preferences (
			id VARCHAR(36) PRIMARY KEY,
			theme TEXT NOT NULL,
			currency TEXT NOT NULL,
			updated_at VARCHAR(40) NOT NULL
		)`,
	}
	for _, ddl := range stmts {
		if _, err := s.db.Exec(ddl); err != nil {
			return fmt.Errorf("failed to create tables: %w", err)
		}
	}
	return s.seedAllItemsList()
}

// seedAllItemsList inserts the reserved pseudo-list if it is not present.
func (s *SQLStore) seedAllItemsList() error {
	var stmt string
	switch s.d {
	case dialectSQLite:
		stmt = `INSERT OR IGNORE INTO lists (id, name, icon, created_at) VALUES (?, ?, ?, ?)`
	case dialectMySQL:
		stmt = `INSERT IGNORE INTO lists (id, name, icon, created_at) VALUES (?, ?, ?, ?)`
	default:
		stmt = `INSERT INTO lists (id, name, icon, created_at) VALUES (?, ?, ?, ?) ON CONFLICT (id) DO NOTHING`
	}
	_, err := s.db.Exec(s.q(stmt),
		model.AllItemsListID, "All Items", model.DefaultListIcon, fmtTime(time.Now().UTC()))
	if err != nil {
		return fmt.Errorf("failed to seed default list: %w", err)
	}
	return nil
}

func fmtTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseStoredTime(v string) time.Time {
	t, err := time.Parse(timeLayout, v)
	if err != nil {
		return time.Time{}
	}
	return t
}

func toNull(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func fromNull(n sql.NullString) *string {
	if !n.Valid {
		return nil
	}
	v := n.String
	return &v
}

func marshalJSON(v interface{}) string {
	data, _ := json.Marshal(v)
	return string(data)
}

const itemColumns = `id, url, name, price, currency, images, colors, sizes,
	selected_size, selected_color, in_stock, list_id, status, error_message,
	store_name, scraper_type, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanItem(row rowScanner) (*model.Item, error) {
	var it model.Item
	var price, currency, selSize, selColor, listID, errMsg, storeName, scraperType sql.NullString
	var images, colors, sizes, created, updated string
	var inStock int

	err := row.Scan(&it.ID, &it.URL, &it.Name, &price, &currency, &images,
		&colors, &sizes, &selSize, &selColor, &inStock, &listID, &it.Status,
		&errMsg, &storeName, &scraperType, &created, &updated)
	if err != nil {
		return nil, err
	}

	it.Price = fromNull(price)
	it.Currency = fromNull(currency)
	it.SelectedSize = fromNull(selSize)
	it.SelectedColor = fromNull(selColor)
	it.ListID = fromNull(listID)
	it.ErrorMessage = fromNull(errMsg)
	it.StoreName = fromNull(storeName)
	it.ScraperType = fromNull(scraperType)
	it.InStock = inStock != 0
	it.CreatedAt = parseStoredTime(created)
	it.UpdatedAt = parseStoredTime(updated)

	it.Images = []string{}
	it.Colors = []model.ColorVariant{}
	it.Sizes = []string{}
	_ = json.Unmarshal([]byte(images), &it.Images)
	_ = json.Unmarshal([]byte(colors), &it.Colors)
	_ = json.Unmarshal([]byte(sizes), &it.Sizes)
	return &it, nil
}

func (s *SQLStore) writeItem(ctx context.Context, exec func(ctx context.Context, query string, args ...interface{}) (sql.Result, error), query string, it *model.Item) error {
	inStock := 0
	if it.InStock {
		inStock = 1
	}
	_, err := exec(ctx, s.q(query),
		it.ID, it.URL, it.Name, toNull(it.Price), toNull(it.Currency),
		marshalJSON(it.Images), marshalJSON(it.Colors), marshalJSON(it.Sizes),
		toNull(it.SelectedSize), toNull(it.SelectedColor), inStock,
		toNull(it.ListID), it.Status, toNull(it.ErrorMessage),
		toNull(it.StoreName), toNull(it.ScraperType),
		fmtTime(it.CreatedAt), fmtTime(it.UpdatedAt))
	return err
}

// GetItem retrieves an item by id.
func (s *SQLStore) GetItem(ctx context.Context, id string) (*model.Item, error) {
	row := s.db.QueryRowContext(ctx,
		s.q(`SELECT `+itemColumns+` FROM items WHERE id = ?`), id)
	it, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return it, nil
}

// ListItems returns items newest first, optionally filtered to one list.
func (s *SQLStore) ListItems(ctx context.Context, listID string) ([]*model.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items ORDER BY created_at DESC, id`
	args := []interface{}{}
	if listID != "" {
		query = `SELECT ` + itemColumns + ` FROM items WHERE list_id = ? ORDER BY created_at DESC, id`
		args = append(args, listID)
	}

	rows, err := s.db.QueryContext(ctx, s.q(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	out := []*model.Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// CreateItem creates an item in the given (or pending) state.
func (s *SQLStore) CreateItem(ctx context.Context, ins model.InsertItem) (*model.Item, error) {
	now := time.Now().UTC()
	status := ins.Status
	if status == "" {
		status = model.ItemStatusPending
	}
	it := &model.Item{
		ID:        uid.New(),
		URL:       ins.URL,
		Name:      ins.Name,
		Images:    []string{},
		Colors:    []model.ColorVariant{},
		Sizes:     []string{},
		InStock:   true,
		ListID:    ins.ListID,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}

	query := `INSERT INTO items (` + itemColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if err := s.writeItem(ctx, s.db.ExecContext, query, it); err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}
	return it, nil
}

// UpdateItem applies a shallow merge inside a transaction.
func (s *SQLStore) UpdateItem(ctx context.Context, id string, patch model.ItemPatch) (*model.Item, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin update: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		s.q(`SELECT `+itemColumns+` FROM items WHERE id = ?`), id)
	it, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read item for update: %w", err)
	}

	applyItemPatch(it, patch)
	it.UpdatedAt = time.Now().UTC()

	query := `UPDATE items SET id = ?, url = ?, name = ?, price = ?, currency = ?,
		images = ?, colors = ?, sizes = ?, selected_size = ?, selected_color = ?,
		in_stock = ?, list_id = ?, status = ?, error_message = ?, store_name = ?,
		scraper_type = ?, created_at = ?, updated_at = ? WHERE id = ?`
	inStock := 0
	if it.InStock {
		inStock = 1
	}
	_, err = tx.ExecContext(ctx, s.q(query),
		it.ID, it.URL, it.Name, toNull(it.Price), toNull(it.Currency),
		marshalJSON(it.Images), marshalJSON(it.Colors), marshalJSON(it.Sizes),
		toNull(it.SelectedSize), toNull(it.SelectedColor), inStock,
		toNull(it.ListID), it.Status, toNull(it.ErrorMessage),
		toNull(it.StoreName), toNull(it.ScraperType),
		fmtTime(it.CreatedAt), fmtTime(it.UpdatedAt), id)
	if err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit update: %w", err)
	}
	return it, nil
}

// DeleteItem removes an item row. Children are swept by the service layer.
func (s *SQLStore) DeleteItem(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, s.q(`DELETE FROM items WHERE id = ?`), id)
	if err != nil {
		return false, fmt.Errorf("failed to delete item: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// GetList retrieves a list by id.
func (s *SQLStore) GetList(ctx context.Context, id string) (*model.List, error) {
	var l model.List
	var created string
	err := s.db.QueryRowContext(ctx,
		s.q(`SELECT id, name, icon, created_at FROM lists WHERE id = ?`), id).
		Scan(&l.ID, &l.Name, &l.Icon, &created)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get list: %w", err)
	}
	l.CreatedAt = parseStoredTime(created)
	return &l, nil
}

// ListLists returns user lists sorted by name, excluding "All Items".
func (s *SQLStore) ListLists(ctx context.Context) ([]*model.List, error) {
	rows, err := s.db.QueryContext(ctx,
		s.q(`SELECT id, name, icon, created_at FROM lists WHERE id <> ? ORDER BY name`),
		model.AllItemsListID)
	if err != nil {
		return nil, fmt.Errorf("failed to list lists: %w", err)
	}
	defer rows.Close()

	out := []*model.List{}
	for rows.Next() {
		var l model.List
		var created string
		if err := rows.Scan(&l.ID, &l.Name, &l.Icon, &created); err != nil {
			return nil, fmt.Errorf("failed to scan list: %w", err)
		}
		l.CreatedAt = parseStoredTime(created)
		out = append(out, &l)
	}
	return out, rows.Err()
}

// CreateList creates a named list with the given icon.
func (s *SQLStore) CreateList(ctx context.Context, ins model.InsertList) (*model.List, error) {
	icon := ins.Icon
	if icon == "" {
		icon = model.DefaultListIcon
	}
	l := &model.List{
		ID:        uid.New(),
		Name:      ins.Name,
		Icon:      icon,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		s.q(`INSERT INTO lists (id, name, icon, created_at) VALUES (?, ?, ?, ?)`),
		l.ID, l.Name, l.Icon, fmtTime(l.CreatedAt))
	if err != nil {
		return nil, fmt.Errorf("failed to create list: %w", err)
	}
	return l, nil
}

// DeleteList removes a list. The reserved pseudo-list is never deleted.
func (s *SQLStore) DeleteList(ctx context.Context, id string) (bool, error) {
	if id == model.AllItemsListID {
		return false, nil
	}
	res, err := s.db.ExecContext(ctx, s.q(`DELETE FROM lists WHERE id = ?`), id)
	if err != nil {
		return false, fmt.Errorf("failed to delete list: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// ListPriceHistory returns price points for an item, oldest first.
func (s *SQLStore) ListPriceHistory(ctx context.Context, itemID string) ([]*model.PriceHistory, error) {
	rows, err := s.db.QueryContext(ctx,
		s.q(`SELECT id, item_id, price, currency, recorded_at FROM price_history
			WHERE item_id = ? ORDER BY recorded_at, id`), itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to list price history: %w", err)
	}
	defer rows.Close()

	out := []*model.PriceHistory{}
	for rows.Next() {
		var p model.PriceHistory
		var recorded string
		if err := rows.Scan(&p.ID, &p.ItemID, &p.Price, &p.Currency, &recorded); err != nil {
			return nil, fmt.Errorf("failed to scan price history: %w", err)
		}
		p.RecordedAt = parseStoredTime(recorded)
		out = append(out, &p)
	}
	return out, rows.Err()
}

// AddPriceHistory appends an immutable price point.
func (s *SQLStore) AddPriceHistory(ctx context.Context, itemID, price, currency string) (*model.PriceHistory, error) {
	p := &model.PriceHistory{
		ID:         uid.New(),
		ItemID:     itemID,
		Price:      price,
		Currency:   currency,
		RecordedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		s.q(`INSERT INTO price_history (id, item_id, price, currency, recorded_at) VALUES (?, ?, ?, ?, ?)`),
		p.ID, p.ItemID, p.Price, p.Currency, fmtTime(p.RecordedAt))
	if err != nil {
		return nil, fmt.Errorf("failed to add price history: %w", err)
	}
	return p, nil
}

// DeletePriceHistoryByItem removes all price points for an item.
func (s *SQLStore) DeletePriceHistoryByItem(ctx context.Context, itemID string) error {
	_, err := s.db.ExecContext(ctx,
		s.q(`DELETE FROM price_history WHERE item_id = ?`), itemID)
	if err != nil {
		return fmt.Errorf("failed to delete price history: %w", err)
	}
	return nil
}

func scanJob(row rowScanner) (*model.ScraperJob, error) {
	var j model.ScraperJob
	var errMsg, processed sql.NullString
	var created string
	if err := row.Scan(&j.ID, &j.ItemID, &j.Status, &j.Attempts, &errMsg, &created, &processed); err != nil {
		return nil, err
	}
	j.ErrorMessage = fromNull(errMsg)
	j.CreatedAt = parseStoredTime(created)
	if processed.Valid {
		t := parseStoredTime(processed.String)
		j.ProcessedAt = &t
	}
	return &j, nil
}

// GetScraperJob retrieves a job by id.
func (s *SQLStore) GetScraperJob(ctx context.Context, id string) (*model.ScraperJob, error) {
	row := s.db.QueryRowContext(ctx,
		s.q(`SELECT id, item_id, status, attempts, error_message, created_at, processed_at
			FROM scraper_jobs WHERE id = ?`), id)
	j, err := scanJob(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scraper job: %w", err)
	}
	return j, nil
}

// ListPendingJobs returns pending jobs oldest first.
func (s *SQLStore) ListPendingJobs(ctx context.Context) ([]*model.ScraperJob, error) {
	rows, err := s.db.QueryContext(ctx,
		s.q(`SELECT id, item_id, status, attempts, error_message, created_at, processed_at
			FROM scraper_jobs WHERE status = ? ORDER BY created_at, id`),
		model.JobStatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending jobs: %w", err)
	}
	defer rows.Close()

	out := []*model.ScraperJob{}
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan scraper job: %w", err)
		}
		out = append(out, j)
	}
	return out, rows.Err()
}

// CreateScraperJob creates a pending job with zero attempts for an item.
func (s *SQLStore) CreateScraperJob(ctx context.Context, itemID string) (*model.ScraperJob, error) {
	j := &model.ScraperJob{
		ID:        uid.New(),
		ItemID:    itemID,
		Status:    model.JobStatusPending,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		s.q(`INSERT INTO scraper_jobs (id, item_id, status, attempts, created_at) VALUES (?, ?, ?, 0, ?)`),
		j.ID, j.ItemID, j.Status, fmtTime(j.CreatedAt))
	if err != nil {
		return nil, fmt.Errorf("failed to create scraper job: %w", err)
	}
	return j, nil
}

// UpdateScraperJob applies a shallow merge to a job.
func (s *SQLStore) UpdateScraperJob(ctx context.Context, id string, patch model.JobPatch) (*model.ScraperJob, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin job update: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		s.q(`SELECT id, item_id, status, attempts, error_message, created_at, processed_at
			FROM scraper_jobs WHERE id = ?`), id)
	j, err := scanJob(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read job for update: %w", err)
	}

	if patch.Status != nil {
		j.Status = *patch.Status
	}
	if patch.Attempts != nil {
		j.Attempts = *patch.Attempts
	}
	if patch.ErrorMessage != nil {
		j.ErrorMessage = patch.ErrorMessage
	}
	if patch.ProcessedAt != nil {
		j.ProcessedAt = patch.ProcessedAt
	}

	var processed sql.NullString
	if j.ProcessedAt != nil {
		processed = sql.NullString{String: fmtTime(*j.ProcessedAt), Valid: true}
	}
	_, err = tx.ExecContext(ctx,
		s.q(`UPDATE scraper_jobs SET status = ?, attempts = ?, error_message = ?, processed_at = ? WHERE id = ?`),
		j.Status, j.Attempts, toNull(j.ErrorMessage), processed, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update scraper job: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit job update: %w", err)
	}
	return j, nil
}

// DeleteScraperJobsByItem removes all jobs for an item.
func (s *SQLStore) DeleteScraperJobsByItem(ctx context.Context, itemID string) error {
	_, err := s.db.ExecContext(ctx,
		s.q(`DELETE FROM scraper_jobs WHERE item_id = ?`), itemID)
	if err != nil {
		return fmt.Errorf("failed to delete scraper jobs: %w", err)
	}
	return nil
}

// RecentActivity returns the limit most-recent events, newest first.
func (s *SQLStore) RecentActivity(ctx context.Context, limit int) ([]*model.ActivityEvent, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		s.q(`SELECT id, item_id, event_type, old_value, new_value, change_percent, created_at
			FROM activity_events ORDER BY created_at DESC, id DESC LIMIT ?`), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	defer rows.Close()

	out := []*model.ActivityEvent{}
	for rows.Next() {
		var ev model.ActivityEvent
		var oldV, newV, pct sql.NullString
		var created string
		if err := rows.Scan(&ev.ID, &ev.ItemID, &ev.EventType, &oldV, &newV, &pct, &created); err != nil {
			return nil, fmt.Errorf("failed to scan activity event: %w", err)
		}
		ev.OldValue = fromNull(oldV)
		ev.NewValue = fromNull(newV)
		ev.ChangePercent = fromNull(pct)
		ev.CreatedAt = parseStoredTime(created)
		out = append(out, &ev)
	}
	return out, rows.Err()
}

// AddActivityEvent appends a feed entry, assigning id and timestamp.
func (s *SQLStore) AddActivityEvent(ctx context.Context, ev model.ActivityEvent) (*model.ActivityEvent, error) {
	ev.ID = uid.New()
	ev.CreatedAt = time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		s.q(`INSERT INTO activity_events (id, item_id, event_type, old_value, new_value, change_percent, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`),
		ev.ID, ev.ItemID, ev.EventType, toNull(ev.OldValue), toNull(ev.NewValue),
		toNull(ev.ChangePercent), fmtTime(ev.CreatedAt))
	if err != nil {
		return nil, fmt.Errorf("failed to add activity event: %w", err)
	}
	return &ev, nil
}

// DeleteActivityByItem removes all feed entries for an item.
func (s *SQLStore) DeleteActivityByItem(ctx context.Context, itemID string) error {
	_, err := s.db.ExecContext(ctx,
		s.q(`DELETE FROM activity_events WHERE item_id = ?`), itemID)
	if err != nil {
		return fmt.Errorf("failed to delete activity events: %w", err)
	}
	return nil
}

// GetPreferences returns the singleton, or nil if never written.
func (s *SQLStore) GetPreferences(ctx context.Context) (*model.UserPreferences, error) {
	var p model.UserPreferences
	var updated string
	err := s.db.QueryRowContext(ctx,
		s.q(`SELECT id, theme, currency, updated_at FROM user_preferences LIMIT 1`)).
		Scan(&p.ID, &p.Theme, &p.Currency, &updated)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get preferences: %w", err)
	}
	p.UpdatedAt = parseStoredTime(updated)
	return &p, nil
}

// UpdatePreferences creates the singleton on first write, then merges.
func (s *SQLStore) UpdatePreferences(ctx context.Context, patch model.PreferencesPatch) (*model.UserPreferences, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin preferences update: %w", err)
	}
	defer tx.Rollback()

	var p model.UserPreferences
	var updated string
	err = tx.QueryRowContext(ctx,
		s.q(`SELECT id, theme, currency, updated_at FROM user_preferences LIMIT 1`)).
		Scan(&p.ID, &p.Theme, &p.Currency, &updated)
	fresh := err == sql.ErrNoRows
	if err != nil && !fresh {
		return nil, fmt.Errorf("failed to read preferences: %w", err)
	}
	if fresh {
		p = model.UserPreferences{
			ID:       uid.New(),
			Theme:    model.DefaultTheme,
			Currency: model.DefaultCurrency,
		}
	}

	if patch.Theme != nil {
		p.Theme = *patch.Theme
	}
	if patch.Currency != nil {
		p.Currency = *patch.Currency
	}
	p.UpdatedAt = time.Now().UTC()

	if fresh {
		_, err = tx.ExecContext(ctx,
			s.q(`INSERT INTO user_preferences (id, theme, currency, updated_at) VALUES (?, ?, ?, ?)`),
			p.ID, p.Theme, p.Currency, fmtTime(p.UpdatedAt))
	} else {
		_, err = tx.ExecContext(ctx,
			s.q(`UPDATE user_preferences SET theme = ?, currency = ?, updated_at = ? WHERE id = ?`),
			p.Theme, p.Currency, fmtTime(p.UpdatedAt), p.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to write preferences: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit preferences: %w", err)
	}
	return &p, nil
}

// Close closes the underlying connection pool.
func (s *SQLStore) Close() error {
	return s.db.Close()
}
