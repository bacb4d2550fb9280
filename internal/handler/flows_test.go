package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"github.com/user/cinelog/internal/model"
	"github.com/user/cinelog/internal/repository"
	"github.com/user/cinelog/internal/service"
	"github.com/user/cinelog/internal/utils"
	"gorm.io/gorm"
)

// memMovies 内存电影目录，同时满足推荐服务的查询接口
// 未用到的方法落到嵌入的 nil 接口上
type memMovies struct {
	MovieStore
	mu      sync.Mutex
	movies  []model.Movie
	filters []repository.MovieFilter
}

func (m *memMovies) Search(_ context.Context, f repository.MovieFilter, offset, limit int) ([]model.Movie, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.filters = append(m.filters, f)

	var out []model.Movie
	for _, mv := range m.movies {
		if f.DirectorID > 0 && !hasID(mv.DirectorIDs, f.DirectorID) {
			continue
		}
		if f.ActorID > 0 && !hasID(mv.ActorIDs, f.ActorID) {
			continue
		}
		out = append(out, mv)
	}
	return out, int64(len(out)), nil
}

func (m *memMovies) FindByID(_ context.Context, id int64) (*model.Movie, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, mv := range m.movies {
		if mv.ID == id {
			return &mv, nil
		}
	}
	return nil, nil
}

func (m *memMovies) FindByIDs(ctx context.Context, ids []int64) ([]model.Movie, error) {
	out := []model.Movie{}
	for _, id := range ids {
		if mv, _ := m.FindByID(ctx, id); mv != nil {
			out = append(out, *mv)
		}
	}
	return out, nil
}

func (m *memMovies) Delete(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, mv := range m.movies {
		if mv.ID == id {
			m.movies = append(m.movies[:i], m.movies[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *memMovies) Similar(_ context.Context, src *model.Movie, _, _ int) ([]model.Movie, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Movie
	for _, mv := range m.movies {
		if mv.ID != src.ID && (hasAnyID(src.DirectorIDs, mv.DirectorIDs) || hasAnyID(src.ActorIDs, mv.ActorIDs)) {
			out = append(out, mv)
		}
	}
	return out, int64(len(out)), nil
}

func (m *memMovies) ByGenres(context.Context, []string, int, int) ([]model.Movie, int64, error) {
	return nil, 0, nil
}

func (m *memMovies) TopRated(context.Context, int, int) ([]model.Movie, int64, error) {
	return nil, 0, nil
}

// memPersons 按名字和类型查找
type memPersons struct {
	PersonStore
	people  []model.Person
	queried []model.PersonType
}

func (p *memPersons) FindByName(_ context.Context, name string, personType model.PersonType) (*model.Person, error) {
	p.queried = append(p.queried, personType)
	for _, person := range p.people {
		if strings.EqualFold(person.Name, name) && (personType == "" || person.Type == personType) {
			return &person, nil
		}
	}
	return nil, nil
}

// memLists 片单存储，增删电影与数据库的条件更新一致
type memLists struct {
	CustomListStore
	lists map[int64]*model.CustomList
}

func (l *memLists) FindByID(_ context.Context, id int64) (*model.CustomList, error) {
	list, ok := l.lists[id]
	if !ok {
		return nil, nil
	}
	cp := *list
	cp.MovieIDs = append(pq.Int64Array{}, list.MovieIDs...)
	return &cp, nil
}

func (l *memLists) AddMovie(_ context.Context, listID, movieID int64) (bool, error) {
	list, ok := l.lists[listID]
	if !ok || hasID(list.MovieIDs, movieID) {
		return false, nil
	}
	list.MovieIDs = append(list.MovieIDs, movieID)
	return true, nil
}

func (l *memLists) RemoveMovie(_ context.Context, listID, movieID int64) (bool, error) {
	list, ok := l.lists[listID]
	if !ok || !hasID(list.MovieIDs, movieID) {
		return false, nil
	}
	kept := pq.Int64Array{}
	for _, id := range list.MovieIDs {
		if id != movieID {
			kept = append(kept, id)
		}
	}
	list.MovieIDs = kept
	return true, nil
}

// memRefs 只认识给定的电影
type memRefs map[int64]bool

func (r memRefs) Ensure(_ context.Context, _ string, ids []int64, _ ...func(*gorm.DB) *gorm.DB) error {
	for _, id := range ids {
		if !r[id] {
			return utils.ValidationError("Invalid movie ids")
		}
	}
	return nil
}

func (r memRefs) Exists(_ context.Context, _ string, id int64) (bool, error) {
	return r[id], nil
}

func hasID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func hasAnyID(a, b []int64) bool {
	for _, v := range a {
		if hasID(b, v) {
			return true
		}
	}
	return false
}

func catalog() *memMovies {
	return &memMovies{movies: []model.Movie{
		{ID: 1, Title: "Heat", DirectorIDs: pq.Int64Array{100}, ActorIDs: pq.Int64Array{200}, AverageRating: 4.6},
		{ID: 2, Title: "Collateral", DirectorIDs: pq.Int64Array{100}, AverageRating: 4.1},
		{ID: 3, Title: "Manhunter", ActorIDs: pq.Int64Array{100}, AverageRating: 3.9},
	}}
}

type apiResponse struct {
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

// serve 以 userID/role 身份调用单个路由
func serve(t *testing.T, method, route, path, body string, userID int64, role string, fn gin.HandlerFunc) (int, apiResponse) {
	t.Helper()

	r := gin.New()
	r.Handle(method, route, func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("role", role)
	}, fn)

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp apiResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
	return w.Code, resp
}

func TestSearchMovies_ByPersonName(t *testing.T) {
	movies := catalog()
	// 同名的演员 ID 更小，按名字不分类型查会先命中他
	persons := &memPersons{people: []model.Person{
		{ID: 99, Name: "Michael Mann", Type: model.PersonActor},
		{ID: 100, Name: "Michael Mann", Type: model.PersonDirector},
	}}
	h := &Handler{Movies: movies, Persons: persons}

	tests := []struct {
		name     string
		query    string
		status   int
		message  string
		wantType model.PersonType
		total    int64
	}{
		{"unknown director", "director=NonexistentName", http.StatusNotFound, "Director with name NonexistentName not found", model.PersonDirector, 0},
		{"unknown actor", "actor=Nobody", http.StatusNotFound, "Actor with name Nobody not found", model.PersonActor, 0},
		{"director resolved by type", "director=michael%20mann", http.StatusOK, "", model.PersonDirector, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			persons.queried = nil
			code, resp := serve(t, http.MethodGet, "/api/movies/search", "/api/movies/search?"+tt.query, "", 0, "", h.SearchMovies)
			if code != tt.status {
				t.Fatalf("status = %d, want %d (%s)", code, tt.status, resp.Message)
			}
			if tt.message != "" && resp.Message != tt.message {
				t.Errorf("message = %q, want %q", resp.Message, tt.message)
			}
			if len(persons.queried) != 1 || persons.queried[0] != tt.wantType {
				t.Errorf("person lookups = %v, want [%s]", persons.queried, tt.wantType)
			}
			if tt.status != http.StatusOK {
				return
			}

			var data struct {
				Pagination utils.Pagination `json:"pagination"`
			}
			if err := json.Unmarshal(resp.Data, &data); err != nil {
				t.Fatal(err)
			}
			if data.Pagination.TotalItems != tt.total {
				t.Errorf("totalItems = %d, want %d", data.Pagination.TotalItems, tt.total)
			}
			if last := movies.filters[len(movies.filters)-1]; last.DirectorID != 100 {
				t.Errorf("filter director = %d, want 100", last.DirectorID)
			}
		})
	}
}

func TestCustomList_AddAndRemoveMovie(t *testing.T) {
	lists := &memLists{lists: map[int64]*model.CustomList{
		1: {ID: 1, UserID: 7, Name: "heist", MovieIDs: pq.Int64Array{1}},
	}}
	h := &Handler{Movies: catalog(), Lists: lists, Refs: memRefs{1: true, 2: true, 3: true}}

	const (
		addRoute    = "/api/customlist/:id/add-movie"
		removeRoute = "/api/customlist/:id/remove-movie"
	)
	steps := []struct {
		name    string
		route   string
		path    string
		body    string
		userID  int64
		status  int
		message string
		movies  []int64
	}{
		{"add", addRoute, "/api/customlist/1/add-movie", `{"movieId":2}`, 7, http.StatusOK, "", []int64{1, 2}},
		{"add duplicate", addRoute, "/api/customlist/1/add-movie", `{"movieId":2}`, 7, http.StatusBadRequest, "Movie already in the list", []int64{1, 2}},
		{"add unknown movie", addRoute, "/api/customlist/1/add-movie", `{"movieId":42}`, 7, http.StatusNotFound, "Movie not found", []int64{1, 2}},
		{"add by stranger", addRoute, "/api/customlist/1/add-movie", `{"movieId":3}`, 8, http.StatusForbidden, "", []int64{1, 2}},
		{"remove", removeRoute, "/api/customlist/1/remove-movie", `{"movieId":1}`, 7, http.StatusOK, "", []int64{2}},
		{"remove again", removeRoute, "/api/customlist/1/remove-movie", `{"movieId":1}`, 7, http.StatusNotFound, "Movie not in the list", []int64{2}},
		{"unknown list", addRoute, "/api/customlist/9/add-movie", `{"movieId":3}`, 7, http.StatusNotFound, "List not found", []int64{2}},
	}

	for _, st := range steps {
		fn := h.AddMovieToList
		if st.route == removeRoute {
			fn = h.RemoveMovieFromList
		}
		code, resp := serve(t, http.MethodPost, st.route, st.path, st.body, st.userID, "user", fn)
		if code != st.status {
			t.Fatalf("%s: status = %d, want %d (%s)", st.name, code, st.status, resp.Message)
		}
		if st.message != "" && resp.Message != st.message {
			t.Errorf("%s: message = %q, want %q", st.name, resp.Message, st.message)
		}
		if st.status == http.StatusBadRequest && resp.Error != "conflict" {
			t.Errorf("%s: error kind = %q, want conflict", st.name, resp.Error)
		}

		// 通过详情接口确认片单内容
		_, detail := serve(t, http.MethodGet, "/api/customlist/:id", "/api/customlist/1", "", 7, "user", h.GetCustomList)
		var data struct {
			List model.CustomList `json:"list"`
		}
		if err := json.Unmarshal(detail.Data, &data); err != nil {
			t.Fatal(err)
		}
		if got := []int64(data.List.MovieIDs); !equalIDs(got, st.movies) {
			t.Errorf("%s: list movies = %v, want %v", st.name, got, st.movies)
		}
	}
}

func TestDeleteMovie_DropsCachedSimilarPage(t *testing.T) {
	utils.InitCache()
	movies := catalog()
	recs := service.NewRecommendationService(movies)
	h := &Handler{Movies: movies, Recommendations: recs}

	const similarRoute = "/api/recommendations/similar/:movieId"
	code, _ := serve(t, http.MethodGet, similarRoute, "/api/recommendations/similar/1", "", 0, "", h.SimilarMovies)
	if code != http.StatusOK {
		t.Fatalf("similar status = %d", code)
	}

	code, resp := serve(t, http.MethodDelete, "/api/moviesCRUD/movie/:id", "/api/moviesCRUD/movie/1", "", 1, "admin", h.DeleteMovie)
	if code != http.StatusOK {
		t.Fatalf("delete status = %d (%s)", code, resp.Message)
	}

	code, resp = serve(t, http.MethodGet, similarRoute, "/api/recommendations/similar/1", "", 0, "", h.SimilarMovies)
	if code != http.StatusNotFound {
		t.Errorf("similar after delete = %d (%s), want 404", code, resp.Message)
	}
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
