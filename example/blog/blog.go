// Package blog is a small chi application whose pages are exported by
// easygen: a post per slug, a home page and an RSS feed.
package blog

import (
	"context"
	"encoding/xml"
	"html/template"
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/3-lines-studio/easygen"
)

type Post struct {
	Slug      string
	Title     string
	Body      string
	Published time.Time
	Draft     bool
}

// Store holds the posts the application serves.
type Store struct {
	posts []Post
}

func NewStore(posts ...Post) *Store {
	return &Store{posts: posts}
}

func DefaultStore() *Store {
	return NewStore(
		Post{Slug: "hello-world", Title: "Hello World", Body: "First post.", Published: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)},
		Post{Slug: "static-exports", Title: "Static exports", Body: "Every page is a file.", Published: time.Date(2024, 3, 8, 9, 0, 0, 0, time.UTC)},
		Post{Slug: "unfinished", Title: "Unfinished", Draft: true},
	)
}

func (s *Store) Published() []Post {
	var out []Post
	for _, p := range s.posts {
		if !p.Draft {
			out = append(out, p)
		}
	}
	return out
}

func (s *Store) Find(slug string) (Post, bool) {
	i := slices.IndexFunc(s.posts, func(p Post) bool { return p.Slug == slug })
	if i < 0 {
		return Post{}, false
	}
	return s.posts[i], true
}

var (
	homeTmpl = template.Must(template.New("home").Parse(
		`<!doctype html><title>Blog</title><ul>{{range .}}<li><a href="/blog/{{.Slug}}/">{{.Title}}</a></li>{{end}}</ul>`))
	postTmpl = template.Must(template.New("post").Parse(
		`<!doctype html><title>{{.Title}}</title><article><h1>{{.Title}}</h1><p>{{.Body}}</p></article>`))
)

// Router serves the blog. Post pages prefer the item being exported and
// fall back to a store lookup when served live.
func Router(store *Store) chi.Router {
	r := chi.NewRouter()

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		render(w, homeTmpl, store.Published())
	})

	r.Get("/blog/{slug}/", func(w http.ResponseWriter, req *http.Request) {
		post, ok := easygen.ItemAs[Post](req.Context())
		if !ok {
			post, ok = store.Find(chi.URLParam(req, "slug"))
		}
		if !ok {
			http.NotFound(w, req)
			return
		}
		render(w, postTmpl, post)
	})

	r.Get("/feed.xml", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_ = xml.NewEncoder(w).Encode(feed(store.Published()))
	})

	return r
}

func render(w http.ResponseWriter, tmpl *template.Template, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.Execute(w, data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

type rss struct {
	XMLName xml.Name  `xml:"rss"`
	Version string    `xml:"version,attr"`
	Items   []rssItem `xml:"channel>item"`
}

type rssItem struct {
	Title   string `xml:"title"`
	Link    string `xml:"link"`
	PubDate string `xml:"pubDate"`
}

func feed(posts []Post) rss {
	out := rss{Version: "2.0"}
	for _, p := range posts {
		out.Items = append(out.Items, rssItem{
			Title:   p.Title,
			Link:    "/blog/" + p.Slug + "/",
			PubDate: p.Published.Format(time.RFC1123Z),
		})
	}
	return out
}

// Posts exports every published post at /blog/<slug>/.
func Posts(store *Store) easygen.CollectionFactory {
	return func() (easygen.Collection, error) {
		return easygen.SliceCollection[Post]{
			Values: store.Published(),
			URI:    func(p Post) string { return "/blog/" + p.Slug + "/" },
		}, nil
	}
}

// Pages exports the fixed pages of the site.
func Pages() easygen.CollectionFactory {
	return easygen.Static(easygen.FuncCollection{
		ItemsFunc: func(ctx context.Context) ([]easygen.Item, error) {
			return []easygen.Item{"/", "/feed.xml"}, nil
		},
		LocationFunc: func(item easygen.Item) string {
			uri, _ := item.(string)
			return uri
		},
	})
}

// NewApp wires the blog into an easygen application. The collection ids
// are the ones listed in easygen.yaml.
func NewApp(store *Store, opts ...easygen.Option) *easygen.App {
	opts = append([]easygen.Option{
		easygen.WithCollection("blog.posts", Posts(store)),
		easygen.WithCollection("blog.pages", Pages()),
	}, opts...)
	return easygen.New(easygen.Chi(Router(store)), opts...)
}
