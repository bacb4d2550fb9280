package repository

import (
	"context"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/user/cinelog/internal/model"
	"github.com/user/cinelog/internal/utils"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// statement 一条生成的 SQL，占位符统一为 ?，空白压缩为单个空格
type statement struct {
	sql  string
	vars []interface{}
}

type sqlRecorder struct {
	mu    sync.Mutex
	stmts []statement
}

var placeholder = regexp.MustCompile(`\$\d+`)

func (r *sqlRecorder) capture(tx *gorm.DB) {
	sql := placeholder.ReplaceAllString(tx.Statement.SQL.String(), "?")
	sql = strings.Join(strings.Fields(sql), " ")

	r.mu.Lock()
	defer r.mu.Unlock()
	r.stmts = append(r.stmts, statement{sql: sql, vars: append([]interface{}{}, tx.Statement.Vars...)})
}

func (r *sqlRecorder) last(t *testing.T) statement {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.stmts) == 0 {
		t.Fatal("no statement captured")
	}
	return r.stmts[len(r.stmts)-1]
}

// dryRunDB 只生成 SQL 不执行，不需要真实数据库
func dryRunDB(t *testing.T) (*gorm.DB, *sqlRecorder) {
	t.Helper()

	db, err := gorm.Open(postgres.Open("host=localhost user=cinelog dbname=cinelog sslmode=disable"), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               logger.Discard,
	})
	if err != nil {
		t.Fatalf("open dry-run db: %v", err)
	}

	rec := &sqlRecorder{}
	if err := db.Callback().Query().After("gorm:query").Register("test:capture_query", rec.capture); err != nil {
		t.Fatal(err)
	}
	if err := db.Callback().Update().After("gorm:update").Register("test:capture_update", rec.capture); err != nil {
		t.Fatal(err)
	}
	return db, rec
}

func assertFragments(t *testing.T, sql string, fragments ...string) {
	t.Helper()
	for _, f := range fragments {
		if !strings.Contains(sql, f) {
			t.Errorf("SQL missing %q\n%s", f, sql)
		}
	}
}

func hasVar(vars []interface{}, want interface{}) bool {
	for _, v := range vars {
		if reflect.DeepEqual(v, want) {
			return true
		}
	}
	return false
}

func TestMovieSearch_ComposesFilters(t *testing.T) {
	db, rec := dryRunDB(t)
	repo := NewMovieRepository(db)

	minRating := 3.5
	f := MovieFilter{
		Title:      "heat",
		Genre:      "crime",
		DirectorID: 100,
		ActorID:    200,
		MinRating:  &minRating,
		Keyword:    "mann",
		Sort:       SortReleaseDate,
	}
	if _, _, err := repo.Search(context.Background(), f, 10, 10); err != nil {
		t.Fatalf("Search: %v", err)
	}

	if len(rec.stmts) != 2 {
		t.Fatalf("captured %d statements, want count + page", len(rec.stmts))
	}
	count := rec.stmts[0]
	if !strings.Contains(count.sql, "count(*)") || strings.Contains(count.sql, "ORDER BY") {
		t.Errorf("count query = %s", count.sql)
	}

	page := rec.last(t)
	assertFragments(t, page.sql,
		`FROM "movies" WHERE`,
		"title ILIKE ?",
		"? = ANY(genres)",
		"average_rating >= ?",
		"? = ANY(director_ids)",
		"? = ANY(actor_ids)",
		"title ILIKE ? OR synopsis ILIKE ? OR country ILIKE ? OR language ILIKE ?",
		"array_to_string(trivia, ' ') ILIKE ?",
		"ORDER BY release_date ASC NULLS LAST, id ASC",
		"LIMIT ? OFFSET ?",
	)

	// 条件之间是 AND，OR 只出现在关键字分组内
	where := page.sql[strings.Index(page.sql, "WHERE"):strings.Index(page.sql, "ORDER BY")]
	if n := strings.Count(where, " AND "); n != 5 {
		t.Errorf("WHERE has %d AND joins, want 5: %s", n, where)
	}
	kwGroup := where[strings.Index(where, "(title ILIKE"):]
	if strings.Count(where, " OR ") != strings.Count(kwGroup, " OR ") {
		t.Errorf("OR leaked outside the keyword group: %s", where)
	}

	for _, want := range []interface{}{"%heat%", "crime", int64(100), int64(200), 3.5, "%mann%"} {
		if !hasVar(page.vars, want) {
			t.Errorf("vars %v missing %v", page.vars, want)
		}
	}
}

func TestMovieSearch_DefaultOrder(t *testing.T) {
	db, rec := dryRunDB(t)
	if _, _, err := NewMovieRepository(db).Search(context.Background(), MovieFilter{Sort: "unknown"}, 0, 10); err != nil {
		t.Fatal(err)
	}
	page := rec.last(t)
	assertFragments(t, page.sql, "ORDER BY id ASC")
	if strings.Contains(page.sql, "WHERE") {
		t.Errorf("empty filter produced a WHERE clause: %s", page.sql)
	}
}

func TestMovieSimilar_OverlapQuery(t *testing.T) {
	db, rec := dryRunDB(t)
	source := &model.Movie{ID: 1, Genres: pq.StringArray{"crime"}}

	if _, _, err := NewMovieRepository(db).Similar(context.Background(), source, 0, 10); err != nil {
		t.Fatal(err)
	}

	page := rec.last(t)
	assertFragments(t, page.sql,
		"id <> ?",
		"(genres && ? OR director_ids && ? OR actor_ids && ?)",
		"ORDER BY average_rating DESC, id ASC",
	)

	// 空的导演/演员集合要传空数组，不能是 NULL
	var arrays int
	for _, v := range page.vars {
		switch a := v.(type) {
		case *pq.StringArray:
			arrays++
			if len(*a) != 1 || (*a)[0] != "crime" {
				t.Errorf("genres var = %v", *a)
			}
		case *pq.Int64Array:
			arrays++
			if *a == nil {
				t.Error("id array passed as NULL")
			}
		}
	}
	if arrays != 3 {
		t.Errorf("found %d array vars, want 3: %v", arrays, page.vars)
	}
}

func TestAppendCredits_GuardsDuplicates(t *testing.T) {
	db, rec := dryRunDB(t)
	released := time.Date(1995, 12, 15, 0, 0, 0, 0, time.UTC)
	movie := &model.Movie{
		ID:          7,
		ActorIDs:    pq.Int64Array{1, 2},
		DirectorIDs: pq.Int64Array{3},
		ReleaseDate: &released,
	}

	if err := appendCredits(db, movie); err != nil {
		t.Fatalf("appendCredits: %v", err)
	}

	// 没有剧组成员，只有演员和导演两条更新
	if len(rec.stmts) != 2 {
		t.Fatalf("captured %d updates, want 2", len(rec.stmts))
	}

	tests := []struct {
		stmt  statement
		ids   string
		match string
		entry string
	}{
		{rec.stmts[0], "id IN (?,?)", `[{"movieId":7,"role":"actor"}]`, `[{"movieId":7,"role":"actor","year":1995}]`},
		{rec.stmts[1], "id IN (?)", `[{"movieId":7,"role":"director"}]`, `[{"movieId":7,"role":"director","year":1995}]`},
	}
	for _, tt := range tests {
		assertFragments(t, tt.stmt.sql,
			`UPDATE "persons" SET`,
			"COALESCE(filmography, '[]'::jsonb) || ?::jsonb",
			tt.ids,
			"NOT (COALESCE(filmography, '[]'::jsonb) @> ?::jsonb)",
		)
		if !hasVar(tt.stmt.vars, tt.match) {
			t.Errorf("containment guard %s not bound: %v", tt.match, tt.stmt.vars)
		}
		if !hasVar(tt.stmt.vars, tt.entry) {
			t.Errorf("appended entry %s not bound: %v", tt.entry, tt.stmt.vars)
		}
	}
}

func TestConditionalArrayUpdates(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		run       func(db *gorm.DB) error
		fragments []string
	}{
		{
			name: "list add",
			run: func(db *gorm.DB) error {
				_, err := NewCustomListRepository(db).AddMovie(ctx, 1, 5)
				return err
			},
			fragments: []string{`UPDATE "custom_lists" SET`, "array_append(COALESCE(movie_ids, '{}'), ?)", "WHERE id = ? AND NOT (? = ANY(COALESCE(movie_ids, '{}')))"},
		},
		{
			name: "list remove",
			run: func(db *gorm.DB) error {
				_, err := NewCustomListRepository(db).RemoveMovie(ctx, 1, 5)
				return err
			},
			fragments: []string{`UPDATE "custom_lists" SET`, "array_remove(movie_ids, ?)", "WHERE id = ? AND ? = ANY(movie_ids)"},
		},
		{
			name: "wishlist add",
			run: func(db *gorm.DB) error {
				_, err := NewUserRepository(db).AddToWishlist(ctx, 1, 5)
				return err
			},
			fragments: []string{`UPDATE "users" SET`, "array_append(COALESCE(wishlist, '{}'), ?)", "WHERE id = ? AND NOT (? = ANY(COALESCE(wishlist, '{}')))"},
		},
		{
			name: "wishlist remove",
			run: func(db *gorm.DB) error {
				_, err := NewUserRepository(db).RemoveFromWishlist(ctx, 1, 5)
				return err
			},
			fragments: []string{`UPDATE "users" SET`, "array_remove(wishlist, ?)", "WHERE id = ? AND ? = ANY(wishlist)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, rec := dryRunDB(t)
			if err := tt.run(db); err != nil {
				t.Fatal(err)
			}
			stmt := rec.last(t)
			assertFragments(t, stmt.sql, tt.fragments...)
			if !hasVar(stmt.vars, int64(5)) || !hasVar(stmt.vars, int64(1)) {
				t.Errorf("vars = %v", stmt.vars)
			}
		})
	}
}

func TestHashPassword_TooLong(t *testing.T) {
	_, err := hashPassword(strings.Repeat("a1", 40))
	if utils.KindOf(err) != utils.KindValidation {
		t.Fatalf("err = %v, want validation error", err)
	}

	if _, err := hashPassword("passw0rd"); err != nil {
		t.Errorf("valid password: %v", err)
	}
}
