package catalog

import (
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/jcoldwell/shelved/pkg/types"
)

//go:embed schema.sql
var schemaSQL string

// dateColumn is the layout for date_read in the comics table.
const dateColumn = "2006-01-02"

// Store is the in-memory SQLite working set for the three record
// collections. It holds no durable state; the session rebuilds it from the
// backup files on every start.
type Store struct {
	db *sql.DB
}

// OpenStore opens a fresh in-memory database and applies the schema.
func OpenStore() (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory database: %w", err)
	}
	// A second pooled connection would see its own, empty :memory:
	// database. The application is single-threaded, one connection is
	// enough.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// kindTable maps an entity kind to its table and id column.
func kindTable(kind Kind) (table, idCol string) {
	switch kind {
	case KindComic:
		return "comics", "comic_id"
	case KindSeries:
		return "series", "series_id"
	default:
		return "events", "event_id"
	}
}

// MaxID returns the largest id present for the kind, or zero when the
// collection is empty. The allocator seeds from this.
func (s *Store) MaxID(kind Kind) (int64, error) {
	table, idCol := kindTable(kind)
	var max int64
	err := s.db.QueryRow(fmt.Sprintf("SELECT COALESCE(MAX(%s), 0) FROM %s", idCol, table)).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("reading max %s id: %w", kind, err)
	}
	return max, nil
}

// Renumber reassigns the given ids to 1..N in slice order. The caller
// passes the ids sorted by current value so relative order is preserved.
// Renumbering goes through a negative intermediate so the primary-key
// uniqueness constraint never trips mid-update; running it twice is a
// no-op.
func (s *Store) Renumber(kind Kind, ids []int64) error {
	table, idCol := kindTable(kind)
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning renumber transaction: %w", err)
	}
	defer tx.Rollback()

	for i, id := range ids {
		if _, err := tx.Exec(
			fmt.Sprintf("UPDATE %s SET %s = ? WHERE %s = ?", table, idCol, idCol),
			-(int64(i) + 1), id,
		); err != nil {
			return fmt.Errorf("renumbering %s %d: %w", kind, id, err)
		}
	}
	if _, err := tx.Exec(
		fmt.Sprintf("UPDATE %s SET %s = -%s WHERE %s < 0", table, idCol, idCol, idCol),
	); err != nil {
		return fmt.Errorf("flipping renumbered %s ids: %w", kind, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing renumber: %w", err)
	}
	return nil
}

// comicColumns is the column list shared by comic queries, in hydration
// order.
const comicColumns = `comic_id, brand, short_brand, prioritize_short_brand,
series, short_series, prioritize_short_series,
comic_name, short_comic_name, prioritize_short_comic,
year_first_published, issue_number, total_pages,
event, purpose, date_read, external_link, read_status`

// InsertComic stores a new comic row.
func (s *Store) InsertComic(c *types.Comic) error {
	var date sql.NullString
	if c.DateRead != nil {
		date = sql.NullString{String: c.DateRead.Format(dateColumn), Valid: true}
	}
	_, err := s.db.Exec(
		`INSERT INTO comics (`+comicColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.BrandName, c.ShortBrandName, boolInt(c.PrioritizeShortBrand),
		c.SeriesName, c.ShortSeriesName, boolInt(c.PrioritizeShortSeries),
		c.ComicName, c.ShortComicName, boolInt(c.PrioritizeShortComic),
		c.YearFirstPublished, c.IssueNumber, c.TotalPages,
		c.EventName, c.Purpose, date, c.ExternalLink, c.ReadStatus,
	)
	if err != nil {
		return fmt.Errorf("inserting comic %d: %w", c.ID, err)
	}
	return nil
}

// GetComic retrieves a comic by id. Returns types.ErrNotFound when no row
// matches.
func (s *Store) GetComic(id int64) (*types.Comic, error) {
	row := s.db.QueryRow("SELECT "+comicColumns+" FROM comics WHERE comic_id = ?", id)
	c, err := hydrateComic(row)
	if err == sql.ErrNoRows {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting comic %d: %w", id, err)
	}
	return c, nil
}

// DeleteComic removes a comic row. Returns types.ErrNotFound when no row
// matches.
func (s *Store) DeleteComic(id int64) error {
	res, err := s.db.Exec("DELETE FROM comics WHERE comic_id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting comic %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting comic %d: %w", id, err)
	}
	if n == 0 {
		return types.ErrNotFound
	}
	return nil
}

// ListComics returns all comics newest-first (descending id, the read
// order the list view shows).
func (s *Store) ListComics() ([]*types.Comic, error) {
	return s.listComics("DESC")
}

// ListComicsByID returns all comics in ascending id order, the order the
// backup files use.
func (s *Store) ListComicsByID() ([]*types.Comic, error) {
	return s.listComics("ASC")
}

func (s *Store) listComics(order string) ([]*types.Comic, error) {
	rows, err := s.db.Query("SELECT " + comicColumns + " FROM comics ORDER BY comic_id " + order)
	if err != nil {
		return nil, fmt.Errorf("listing comics: %w", err)
	}
	defer rows.Close()

	var comics []*types.Comic
	for rows.Next() {
		c, err := hydrateComic(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning comic row: %w", err)
		}
		comics = append(comics, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating comic rows: %w", err)
	}
	return comics, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func hydrateComic(row rowScanner) (*types.Comic, error) {
	var (
		c                          types.Comic
		psBrand, psSeries, psComic int
		date                       sql.NullString
	)
	err := row.Scan(
		&c.ID, &c.BrandName, &c.ShortBrandName, &psBrand,
		&c.SeriesName, &c.ShortSeriesName, &psSeries,
		&c.ComicName, &c.ShortComicName, &psComic,
		&c.YearFirstPublished, &c.IssueNumber, &c.TotalPages,
		&c.EventName, &c.Purpose, &date, &c.ExternalLink, &c.ReadStatus,
	)
	if err != nil {
		return nil, err
	}
	c.PrioritizeShortBrand = psBrand != 0
	c.PrioritizeShortSeries = psSeries != 0
	c.PrioritizeShortComic = psComic != 0
	if date.Valid {
		t, err := time.Parse(dateColumn, date.String)
		if err != nil {
			return nil, fmt.Errorf("parsing date_read %q: %w", date.String, err)
		}
		c.DateRead = &t
	}
	return &c, nil
}

// seriesColumns is the column list shared by series queries.
const seriesColumns = `series_id, brand, short_brand, prioritize_short_brand,
name, short_name, prioritize_short_name, year_first_published,
issues_read, total_issues, pages_read,
recent_issue_number, recent_total_pages, recent_event, recent_purpose`

// InsertSeries stores a new series row.
func (s *Store) InsertSeries(sr *types.Series) error {
	_, err := s.db.Exec(
		`INSERT INTO series (`+seriesColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sr.ID, sr.BrandName, sr.ShortBrandName, boolInt(sr.PrioritizeShortBrand),
		sr.SeriesName, sr.ShortSeriesName, boolInt(sr.PrioritizeShortSeries),
		sr.YearFirstPublished,
		sr.IssuesRead, sr.TotalIssues, sr.PagesRead,
		sr.RecentIssueNumber, sr.RecentTotalPages, sr.RecentEventName, sr.RecentPurpose,
	)
	if err != nil {
		return fmt.Errorf("inserting series %q (%d): %w", sr.SeriesName, sr.YearFirstPublished, err)
	}
	return nil
}

// UpdateSeries rewrites a series row in place, keyed by id.
func (s *Store) UpdateSeries(sr *types.Series) error {
	res, err := s.db.Exec(
		`UPDATE series SET brand = ?, short_brand = ?, prioritize_short_brand = ?,
		 name = ?, short_name = ?, prioritize_short_name = ?, year_first_published = ?,
		 issues_read = ?, total_issues = ?, pages_read = ?,
		 recent_issue_number = ?, recent_total_pages = ?, recent_event = ?, recent_purpose = ?
		 WHERE series_id = ?`,
		sr.BrandName, sr.ShortBrandName, boolInt(sr.PrioritizeShortBrand),
		sr.SeriesName, sr.ShortSeriesName, boolInt(sr.PrioritizeShortSeries),
		sr.YearFirstPublished,
		sr.IssuesRead, sr.TotalIssues, sr.PagesRead,
		sr.RecentIssueNumber, sr.RecentTotalPages, sr.RecentEventName, sr.RecentPurpose,
		sr.ID,
	)
	if err != nil {
		return fmt.Errorf("updating series %d: %w", sr.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating series %d: %w", sr.ID, err)
	}
	if n == 0 {
		return types.ErrNotFound
	}
	return nil
}

// DeleteSeries removes a series row by id.
func (s *Store) DeleteSeries(id int64) error {
	res, err := s.db.Exec("DELETE FROM series WHERE series_id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting series %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting series %d: %w", id, err)
	}
	if n == 0 {
		return types.ErrNotFound
	}
	return nil
}

// GetSeries retrieves a series by its identity key. Returns
// types.ErrNotFound when no row matches.
func (s *Store) GetSeries(key types.SeriesKey) (*types.Series, error) {
	row := s.db.QueryRow(
		"SELECT "+seriesColumns+" FROM series WHERE name = ? AND year_first_published = ?",
		key.Name, key.Year,
	)
	sr, err := hydrateSeries(row)
	if err == sql.ErrNoRows {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting series %q (%d): %w", key.Name, key.Year, err)
	}
	return sr, nil
}

// ListSeries returns all series in ascending id order.
func (s *Store) ListSeries() ([]*types.Series, error) {
	rows, err := s.db.Query("SELECT " + seriesColumns + " FROM series ORDER BY series_id ASC")
	if err != nil {
		return nil, fmt.Errorf("listing series: %w", err)
	}
	defer rows.Close()

	var series []*types.Series
	for rows.Next() {
		sr, err := hydrateSeries(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning series row: %w", err)
		}
		series = append(series, sr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating series rows: %w", err)
	}
	return series, nil
}

func hydrateSeries(row rowScanner) (*types.Series, error) {
	var (
		sr                types.Series
		psBrand, psSeries int
	)
	err := row.Scan(
		&sr.ID, &sr.BrandName, &sr.ShortBrandName, &psBrand,
		&sr.SeriesName, &sr.ShortSeriesName, &psSeries, &sr.YearFirstPublished,
		&sr.IssuesRead, &sr.TotalIssues, &sr.PagesRead,
		&sr.RecentIssueNumber, &sr.RecentTotalPages, &sr.RecentEventName, &sr.RecentPurpose,
	)
	if err != nil {
		return nil, err
	}
	sr.PrioritizeShortBrand = psBrand != 0
	sr.PrioritizeShortSeries = psSeries != 0
	return &sr, nil
}

// eventColumns is the column list shared by event queries.
const eventColumns = `event_id, brand, short_brand, prioritize_short_brand,
name, issues_read, total_issues, pages_read`

// InsertEvent stores a new event row.
func (s *Store) InsertEvent(e *types.Event) error {
	_, err := s.db.Exec(
		`INSERT INTO events (`+eventColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.BrandName, e.ShortBrandName, boolInt(e.PrioritizeShortBrand),
		e.EventName, e.IssuesRead, e.TotalIssues, e.PagesRead,
	)
	if err != nil {
		return fmt.Errorf("inserting event %q: %w", e.EventName, err)
	}
	return nil
}

// UpdateEvent rewrites an event row in place, keyed by id.
func (s *Store) UpdateEvent(e *types.Event) error {
	res, err := s.db.Exec(
		`UPDATE events SET brand = ?, short_brand = ?, prioritize_short_brand = ?,
		 name = ?, issues_read = ?, total_issues = ?, pages_read = ?
		 WHERE event_id = ?`,
		e.BrandName, e.ShortBrandName, boolInt(e.PrioritizeShortBrand),
		e.EventName, e.IssuesRead, e.TotalIssues, e.PagesRead,
		e.ID,
	)
	if err != nil {
		return fmt.Errorf("updating event %d: %w", e.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating event %d: %w", e.ID, err)
	}
	if n == 0 {
		return types.ErrNotFound
	}
	return nil
}

// GetEvent retrieves an event by name, its identity key. Returns
// types.ErrNotFound when no row matches.
func (s *Store) GetEvent(name string) (*types.Event, error) {
	row := s.db.QueryRow("SELECT "+eventColumns+" FROM events WHERE name = ?", name)
	e, err := hydrateEvent(row)
	if err == sql.ErrNoRows {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting event %q: %w", name, err)
	}
	return e, nil
}

// ListEvents returns all events in ascending id order.
func (s *Store) ListEvents() ([]*types.Event, error) {
	rows, err := s.db.Query("SELECT " + eventColumns + " FROM events ORDER BY event_id ASC")
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	defer rows.Close()

	var events []*types.Event
	for rows.Next() {
		e, err := hydrateEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning event row: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating event rows: %w", err)
	}
	return events, nil
}

func hydrateEvent(row rowScanner) (*types.Event, error) {
	var (
		e       types.Event
		psBrand int
	)
	err := row.Scan(
		&e.ID, &e.BrandName, &e.ShortBrandName, &psBrand,
		&e.EventName, &e.IssuesRead, &e.TotalIssues, &e.PagesRead,
	)
	if err != nil {
		return nil, err
	}
	e.PrioritizeShortBrand = psBrand != 0
	return &e, nil
}

// boolInt dehydrates a flag for its INTEGER column.
func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
