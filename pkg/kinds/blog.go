package kinds

import (
	"strconv"

	"pkg.jsn.cam/datagen/pkg/dataset"
)

// BlogCategories is the closed set of blog post categories.
var BlogCategories = []string{"Technology", "Business", "Lifestyle", "Science", "Health"}

const (
	blogIDPrefix       = "blog-"
	blogTitleWords     = 6
	blogContentMaxSize = 2000
	blogMinTags        = 2
	blogMaxTags        = 5
)

// BlogPost is one article of a blog corpus.
type BlogPost struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Content         string   `json:"content"`
	Category        string   `json:"category"`
	Tags            []string `json:"tags"`
	Author          string   `json:"author"`
	PublishedAt     string   `json:"published_at"`
	IndexedAt       string   `json:"indexed_at"`
	PopularityScore float64  `json:"popularity_score"`
	EngagementScore float64  `json:"engagement_score"`
	URL             string   `json:"url"`
}

// BlogPostFactory returns a factory producing posts with IDs blog-<index>.
func BlogPostFactory(src *Source) dataset.Factory[BlogPost] {
	f := src.Faker
	return func(index int) BlogPost {
		return BlogPost{
			ID:              blogIDPrefix + strconv.Itoa(index),
			Title:           f.Sentence(blogTitleWords),
			Content:         src.text(blogContentMaxSize),
			Category:        f.RandomString(BlogCategories),
			Tags:            src.words(blogMinTags, blogMaxTags),
			Author:          f.Name(),
			PublishedAt:     src.pastTimestamp(),
			IndexedAt:       src.pastTimestamp(),
			PopularityScore: src.score(1, 100),
			EngagementScore: src.score(1, 100),
			URL:             f.URL(),
		}
	}
}
