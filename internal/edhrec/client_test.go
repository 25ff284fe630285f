package edhrec

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"golang.org/x/net/html"
)

const pageJSON = `{
	"container": {
		"json_dict": {
			"cardlists": [
				{
					"header": "High Synergy Cards",
					"cardviews": [
						{"name": "Sol Ring"},
						{"name": "Cultivate"}
					]
				},
				{
					"header": "Enchantments",
					"cardviews": [
						{"name": "Rhystic Study"},
						{"name": "sol ring (M21)"}
					]
				}
			]
		}
	}
}`

func TestRecommendationsStructured(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/atraxa-praetors-voice.json" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(pageJSON))
	}))
	defer server.Close()

	client := NewClient(WithBaseURLs(server.URL, server.URL))

	got := client.Recommendations(context.Background(), "Atraxa, Praetors' Voice")

	// The duplicate sol ring printing collapses onto the first occurrence.
	want := []string{"Sol Ring", "Cultivate", "Rhystic Study"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Recommendations = %v, want %v", got, want)
	}
}

func TestRecommendationsFallbackToHTML(t *testing.T) {
	page := `<html><body>
		<a class="card__name" href="/cards/sol-ring">Sol Ring</a>
		<img alt="Cultivate" src="c.jpg">
		<span data-card-name="Rhystic Study">view</span>
		<div>Arcane Signet 84% of 1200 decks</div>
	</body></html>`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, ".json") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(page))
	}))
	defer server.Close()

	client := NewClient(WithBaseURLs(server.URL, server.URL))

	got := client.Recommendations(context.Background(), "Atraxa, Praetors' Voice")

	want := []string{"Sol Ring", "Cultivate", "Rhystic Study", "Arcane Signet"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Recommendations = %v, want %v", got, want)
	}
}

func TestRecommendationsFeedUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	server.Close() // connection refused for every request

	client := NewClient(WithBaseURLs(server.URL, server.URL))

	got := client.Recommendations(context.Background(), "Atraxa, Praetors' Voice")
	if len(got) != 0 {
		t.Errorf("unreachable feed should yield empty list, got %v", got)
	}
}

func TestRecommendationsEmptyCommander(t *testing.T) {
	client := NewClient()
	if got := client.Recommendations(context.Background(), ""); len(got) != 0 {
		t.Errorf("empty commander should yield empty list, got %v", got)
	}
}

func parseDoc(t *testing.T, s string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func TestCardLinkExtractor(t *testing.T) {
	doc := parseDoc(t, `<body>
		<a href="/cards/sol-ring">Sol Ring</a>
		<a href="/commanders/other">Not A Card</a>
		<a class="card-list" href="#">Cultivate</a>
	</body>`)

	got := cardLinkExtractor{}.Extract(doc)
	want := []string{"Sol Ring", "Cultivate"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Extract = %v, want %v", got, want)
	}
}

func TestImageAltExtractorSkipsLongAlts(t *testing.T) {
	long := strings.Repeat("x", 90)
	doc := parseDoc(t, `<body><img alt="Sol Ring"><img alt="`+long+`"><img src="no-alt.jpg"></body>`)

	got := imageAltExtractor{}.Extract(doc)
	if !reflect.DeepEqual(got, []string{"Sol Ring"}) {
		t.Errorf("Extract = %v, want [Sol Ring]", got)
	}
}

func TestPercentLineExtractor(t *testing.T) {
	doc := parseDoc(t, `<body>
		<div>Swiftfoot Boots 52% of 9000 decks</div>
		<div>In 52% of 9000 decks the average price is high</div>
		<div>no stats here</div>
	</body>`)

	got := percentLineExtractor{}.Extract(doc)
	if len(got) == 0 || got[0] != "Swiftfoot Boots" {
		t.Errorf("Extract = %v, want first entry Swiftfoot Boots", got)
	}
}

func TestExtractorsAreTotalOnEmptyDoc(t *testing.T) {
	doc := parseDoc(t, "")
	for _, ex := range defaultExtractors() {
		if got := ex.Extract(doc); len(got) != 0 {
			t.Errorf("%T.Extract(empty) = %v, want empty", ex, got)
		}
	}
}
