package serializer

import (
	"context"
	"time"

	"github.com/Clark-Hu/catalog-api/internal/domain"
	"github.com/Clark-Hu/catalog-api/internal/schema"
)

func formatDate(t time.Time) string      { return t.Format(DateLayout) }
func formatTimestamp(t time.Time) string { return t.UTC().Format(TimestampLayout) }

// SerializeMovie projects every declared movie field.
func (s *Serializer) SerializeMovie(m domain.Movie) map[string]any {
	return map[string]any{
		"id":              m.ID,
		"title":           m.Title,
		"description":     m.Description,
		"release_date":    formatDate(m.ReleaseDate),
		"rating":          m.Rating,
		"us_gross":        m.USGross,
		"worldwide_gross": m.WorldwideGross,
	}
}

// SerializeResource projects a resource and counts its likes. The count is
// read from the store on every call.
func (s *Serializer) SerializeResource(ctx context.Context, r domain.Resource) (map[string]any, error) {
	likedBy, err := s.rel.LikedBy(ctx, r.ID)
	if err != nil {
		return nil, lookupError(schema.KindResource, "liked_by", r.ID, err)
	}
	if likedBy == nil {
		likedBy = []int64{}
	}
	return map[string]any{
		"id":       r.ID,
		"title":    r.Title,
		"content":  r.Content,
		"liked_by": likedBy,
		"likes":    len(likedBy),
	}, nil
}

// SerializeUser projects a user merged with its profile. A user without a
// profile fails with a RelationshipLookupError.
func (s *Serializer) SerializeUser(ctx context.Context, u domain.User) (map[string]any, error) {
	profile, err := s.rel.Profile(ctx, u.ID)
	if err != nil {
		return nil, lookupError(schema.KindUser, "userprofile", u.ID, err)
	}
	return map[string]any{
		"id":         u.ID,
		"username":   u.Username,
		"email":      u.Email,
		"is_staff":   u.IsStaff,
		"active":     u.IsActive,
		"full_name":  u.FullName(),
		"bio":        profile.Bio,
		"birth_date": formatDate(profile.BirthDate),
	}, nil
}

// SerializeComment embeds the author as a full user projection.
func (s *Serializer) SerializeComment(ctx context.Context, c domain.Comment) (map[string]any, error) {
	author, err := s.rel.User(ctx, c.AuthorID)
	if err != nil {
		return nil, lookupError(schema.KindComment, "author", c.ID, err)
	}
	authorRepr, err := s.SerializeUser(ctx, author)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"id":       c.ID,
		"author":   authorRepr,
		"datetime": formatTimestamp(c.Datetime),
		"content":  c.Content,
	}, nil
}

// SerializeModelC projects a ModelC.
func (s *Serializer) SerializeModelC(c domain.ModelC) map[string]any {
	return map[string]any{
		"id":      c.ID,
		"content": c.Content,
	}
}

// SerializeModelB projects a ModelB with model_c as a plain id.
func (s *Serializer) SerializeModelB(b domain.ModelB) map[string]any {
	return map[string]any{
		"id":      b.ID,
		"model_c": b.ModelCID,
		"content": b.Content,
	}
}

// SerializeModelA embeds model_b, which in turn embeds model_c. Expansion
// stops there.
func (s *Serializer) SerializeModelA(ctx context.Context, a domain.ModelA) (map[string]any, error) {
	b, err := s.rel.ModelB(ctx, a.ModelBID)
	if err != nil {
		return nil, lookupError(schema.KindModelA, "model_b", a.ID, err)
	}
	c, err := s.rel.ModelC(ctx, b.ModelCID)
	if err != nil {
		return nil, lookupError(schema.KindModelB, "model_c", b.ID, err)
	}
	nested := s.SerializeModelB(b)
	nested["model_c"] = s.SerializeModelC(c)
	return map[string]any{
		"id":      a.ID,
		"model_b": nested,
		"content": a.Content,
	}, nil
}

// SerializeAll applies fn to every item, stopping at the first failure.
func SerializeAll[T any](ctx context.Context, items []T, fn func(context.Context, T) (map[string]any, error)) ([]map[string]any, error) {
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		repr, err := fn(ctx, item)
		if err != nil {
			return nil, err
		}
		out = append(out, repr)
	}
	return out, nil
}

// Plain adapts a projection that cannot fail for use with SerializeAll.
func Plain[T any](fn func(T) map[string]any) func(context.Context, T) (map[string]any, error) {
	return func(_ context.Context, item T) (map[string]any, error) {
		return fn(item), nil
	}
}
