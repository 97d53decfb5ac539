package soundboard

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Sound is one audio clip: the file name under the sounds directory, the
// contributor it came from and a display title derived from the file name.
type Sound struct {
	Location string
	Person   string
	Title    string
}

// Index is built once at startup and treated as immutable afterwards.
type Index struct {
	Sounds []Sound  // enumeration order of the sounds directory
	People []string // distinct contributors, first-seen order
}

// BuildIndex scans dir for mp3 files named "person_title.mp3". Files without
// the separator carry no contributor and are skipped.
func BuildIndex(dir string) (*Index, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.mp3"))
	if err != nil {
		return nil, err
	}

	titler := cases.Title(language.English)
	idx := &Index{}
	seen := make(map[string]bool)

	for _, match := range matches {
		base := filepath.Base(match)
		stem := strings.TrimSuffix(base, filepath.Ext(base))

		parts := strings.Split(stem, "_")
		if len(parts) < 2 {
			continue
		}

		idx.Sounds = append(idx.Sounds, Sound{
			Location: base,
			Person:   parts[0],
			Title:    titler.String(parts[1]),
		})

		if !seen[parts[0]] {
			seen[parts[0]] = true
			idx.People = append(idx.People, parts[0])
		}
	}

	return idx, nil
}

type SoundboardModule struct {
	idx *Index
}

func NewSoundboardModule(idx *Index) *SoundboardModule {
	return &SoundboardModule{idx: idx}
}

func (s *SoundboardModule) RegisterRoutes(router *gin.Engine) {
	router.GET("/soundboard", s.listing)
	router.GET("/soundboard/:person", s.personPage)
}

func (s *SoundboardModule) listing(c *gin.Context) {
	c.HTML(http.StatusOK, "soundboard_index.html", gin.H{
		"sounds": s.idx.Sounds,
		"people": s.idx.People,
	})
}

// personPage has no view yet; per-contributor pages are a planned follow-up.
func (s *SoundboardModule) personPage(c *gin.Context) {
	c.HTML(http.StatusNotImplemented, "error.html", gin.H{
		"status": http.StatusNotImplemented,
		"error":  "Not implemented yet",
	})
}
