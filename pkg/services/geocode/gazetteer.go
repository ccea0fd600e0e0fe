package geocode

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/yjk624/shinryeong/pkg/models/domain"
)

// Place is one gazetteer row.
type Place struct {
	Name      string
	Longitude float64
	Latitude  float64
	Aliases   []string
}

// DefaultPlaces covers the major cities of the default deployment region.
var DefaultPlaces = []Place{
	{Name: "Seoul", Longitude: 126.9780, Latitude: 37.5665, Aliases: []string{"서울", "서울특별시", "서울시"}},
	{Name: "Busan", Longitude: 129.0756, Latitude: 35.1796, Aliases: []string{"부산", "부산광역시", "Pusan"}},
	{Name: "Incheon", Longitude: 126.7052, Latitude: 37.4563, Aliases: []string{"인천", "인천광역시"}},
	{Name: "Daegu", Longitude: 128.6014, Latitude: 35.8714, Aliases: []string{"대구", "대구광역시"}},
	{Name: "Daejeon", Longitude: 127.3845, Latitude: 36.3504, Aliases: []string{"대전", "대전광역시"}},
	{Name: "Gwangju", Longitude: 126.8526, Latitude: 35.1595, Aliases: []string{"광주", "광주광역시"}},
	{Name: "Ulsan", Longitude: 129.3114, Latitude: 35.5384, Aliases: []string{"울산", "울산광역시"}},
	{Name: "Sejong", Longitude: 127.2890, Latitude: 36.4800, Aliases: []string{"세종", "세종특별자치시"}},
	{Name: "Suwon", Longitude: 127.0286, Latitude: 37.2636, Aliases: []string{"수원", "수원시"}},
	{Name: "Chuncheon", Longitude: 127.7298, Latitude: 37.8813, Aliases: []string{"춘천", "춘천시"}},
	{Name: "Gangneung", Longitude: 128.8761, Latitude: 37.7519, Aliases: []string{"강릉", "강릉시"}},
	{Name: "Cheongju", Longitude: 127.4890, Latitude: 36.6424, Aliases: []string{"청주", "청주시"}},
	{Name: "Jeonju", Longitude: 127.1480, Latitude: 35.8242, Aliases: []string{"전주", "전주시"}},
	{Name: "Pohang", Longitude: 129.3435, Latitude: 36.0190, Aliases: []string{"포항", "포항시"}},
	{Name: "Changwon", Longitude: 128.6811, Latitude: 35.2280, Aliases: []string{"창원", "창원시"}},
	{Name: "Jeju", Longitude: 126.5312, Latitude: 33.4996, Aliases: []string{"제주", "제주시", "제주도"}},
	{Name: "Pyongyang", Longitude: 125.7625, Latitude: 39.0392, Aliases: []string{"평양"}},
	{Name: "Tokyo", Longitude: 139.6917, Latitude: 35.6895, Aliases: []string{"도쿄", "東京"}},
	{Name: "Osaka", Longitude: 135.5023, Latitude: 34.6937, Aliases: []string{"오사카", "大阪"}},
}

type Gazetteer struct {
	places map[string]Place
}

// NewGazetteer indexes places by normalized name and aliases. Later places
// override earlier ones with the same key.
func NewGazetteer(places ...Place) *Gazetteer {
	g := &Gazetteer{places: make(map[string]Place)}
	for _, p := range places {
		g.add(p)
	}
	return g
}

// LoadGazetteer reads an INI file with one section per place:
//
//	[Andong]
//	longitude = 128.7294
//	latitude  = 36.5684
//	aliases   = 안동, 안동시
//
// The built-in places are loaded first so the file only needs additions.
func LoadGazetteer(path string) (*Gazetteer, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load gazetteer %s: %w", path, err)
	}

	g := NewGazetteer(DefaultPlaces...)
	for _, section := range cfg.Sections() {
		if len(section.Keys()) == 0 {
			continue
		}
		lon, err := section.Key("longitude").Float64()
		if err != nil {
			return nil, fmt.Errorf("place %s: invalid longitude: %w", section.Name(), err)
		}
		if lon < -180 || lon > 180 {
			return nil, fmt.Errorf("place %s: longitude %f out of range", section.Name(), lon)
		}
		lat := section.Key("latitude").MustFloat64(0)

		var aliases []string
		for _, a := range section.Key("aliases").Strings(",") {
			if a = strings.TrimSpace(a); a != "" {
				aliases = append(aliases, a)
			}
		}

		g.add(Place{Name: section.Name(), Longitude: lon, Latitude: lat, Aliases: aliases})
	}
	return g, nil
}

func (g *Gazetteer) add(p Place) {
	g.places[NormalizeKey(p.Name)] = p
	for _, a := range p.Aliases {
		g.places[NormalizeKey(a)] = p
	}
}

func (g *Gazetteer) Resolve(_ context.Context, place string) (domain.Location, error) {
	p, ok := g.places[NormalizeKey(place)]
	if !ok {
		return domain.Location{}, notFound(place)
	}
	return domain.Location{
		Name:      p.Name,
		Longitude: p.Longitude,
		Latitude:  p.Latitude,
		Source:    "gazetteer",
	}, nil
}

// Names lists the canonical place names, sorted.
func (g *Gazetteer) Names() []string {
	seen := make(map[string]bool)
	var names []string
	for _, p := range g.places {
		if !seen[p.Name] {
			seen[p.Name] = true
			names = append(names, p.Name)
		}
	}
	sort.Strings(names)
	return names
}

// Lookup returns the place row for a name or alias.
func (g *Gazetteer) Lookup(name string) (Place, bool) {
	p, ok := g.places[NormalizeKey(name)]
	return p, ok
}
