package serializer

import (
	"time"

	"github.com/Clark-Hu/catalog-api/internal/domain"
)

// MovieValues returns the stored values of m, for use as Options.Current.
func MovieValues(m domain.Movie) Values {
	return Values{
		"title":           m.Title,
		"description":     m.Description,
		"release_date":    m.ReleaseDate,
		"rating":          m.Rating,
		"us_gross":        m.USGross,
		"worldwide_gross": m.WorldwideGross,
	}
}

// ApplyMovie copies validated values onto m.
func ApplyMovie(m *domain.Movie, v Values) {
	setString(&m.Title, v, "title")
	setString(&m.Description, v, "description")
	setTime(&m.ReleaseDate, v, "release_date")
	setInt(&m.Rating, v, "rating")
	setInt(&m.USGross, v, "us_gross")
	setInt(&m.WorldwideGross, v, "worldwide_gross")
}

// ApplyResource copies validated values onto r and returns the liked_by ids
// when they were part of the input.
func ApplyResource(r *domain.Resource, v Values) (likedBy []int64, ok bool) {
	setString(&r.Title, v, "title")
	setString(&r.Content, v, "content")
	likedBy, ok = v["liked_by"].([]int64)
	return likedBy, ok
}

// ApplyUser copies validated identity values onto u.
func ApplyUser(u *domain.User, v Values) {
	setString(&u.Username, v, "username")
	setString(&u.Email, v, "email")
	setString(&u.FirstName, v, "first_name")
	setString(&u.LastName, v, "last_name")
	setBool(&u.IsStaff, v, "is_staff")
	setBool(&u.IsActive, v, "is_active")
}

// ApplyProfile copies validated values onto p.
func ApplyProfile(p *domain.UserProfile, v Values) {
	setString(&p.Bio, v, "bio")
	setTime(&p.BirthDate, v, "birth_date")
}

// ApplyComment copies validated values onto c. Datetime is never written.
func ApplyComment(c *domain.Comment, v Values) {
	setInt(&c.AuthorID, v, "author")
	setString(&c.Content, v, "content")
}

func ApplyModelC(c *domain.ModelC, v Values) {
	setString(&c.Content, v, "content")
}

func ApplyModelB(b *domain.ModelB, v Values) {
	setInt(&b.ModelCID, v, "model_c")
	setString(&b.Content, v, "content")
}

func ApplyModelA(a *domain.ModelA, v Values) {
	setInt(&a.ModelBID, v, "model_b")
	setString(&a.Content, v, "content")
}

func setString(dst *string, v Values, key string) {
	if s, ok := v[key].(string); ok {
		*dst = s
	}
}

func setInt(dst *int64, v Values, key string) {
	if n, ok := v[key].(int64); ok {
		*dst = n
	}
}

func setBool(dst *bool, v Values, key string) {
	if b, ok := v[key].(bool); ok {
		*dst = b
	}
}

func setTime(dst *time.Time, v Values, key string) {
	if t, ok := v[key].(time.Time); ok {
		*dst = t
	}
}
