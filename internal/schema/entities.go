package schema

import "math"

func bound(v int64) *int64 { return &v }

var (
	int32Min = bound(math.MinInt32)
	int32Max = bound(math.MaxInt32)
)

func idField() Field {
	return Field{Name: "id", Column: "id", Type: TypeInteger, ReadOnly: true}
}

var registry = map[Kind]Entity{
	KindMovie: {
		Kind:  KindMovie,
		Table: "movies",
		Fields: []Field{
			idField(),
			{Name: "title", Column: "title", Type: TypeText, Required: true, MaxLength: 128},
			{Name: "description", Column: "description", Type: TypeText, Required: true, MaxLength: 2048},
			{Name: "release_date", Column: "release_date", Type: TypeDate, Required: true},
			// 1..10 is checked by the movie rating rule.
			{Name: "rating", Column: "rating", Type: TypeInteger, Required: true},
			{Name: "us_gross", Column: "us_gross", Type: TypeInteger, Default: int64(0), Min: int32Min, Max: int32Max},
			{Name: "worldwide_gross", Column: "worldwide_gross", Type: TypeInteger, Default: int64(0), Min: int32Min, Max: int32Max},
		},
	},
	KindResource: {
		Kind:  KindResource,
		Table: "resources",
		Fields: []Field{
			idField(),
			{Name: "title", Column: "title", Type: TypeText, Required: true, MaxLength: 256},
			{Name: "content", Column: "content", Type: TypeText, Required: true},
			{Name: "liked_by", Type: TypeRefSet, Target: KindUser, Default: []int64{}, OnDelete: Cascade},
		},
	},
	KindUser: {
		Kind:  KindUser,
		Table: "users",
		Fields: []Field{
			idField(),
			{Name: "username", Column: "username", Type: TypeText, Required: true, MaxLength: 150},
			{Name: "email", Column: "email", Type: TypeText, MaxLength: 254},
			{Name: "first_name", Column: "first_name", Type: TypeText, MaxLength: 150},
			{Name: "last_name", Column: "last_name", Type: TypeText, MaxLength: 150},
			{Name: "is_staff", Column: "is_staff", Type: TypeBool, Default: false},
			{Name: "is_active", Column: "is_active", Type: TypeBool, Default: true},
			{Name: "date_joined", Column: "date_joined", Type: TypeTimestamp, ReadOnly: true},
		},
	},
	KindUserProfile: {
		Kind:  KindUserProfile,
		Table: "user_profiles",
		Fields: []Field{
			{Name: "user", Column: "user_id", Type: TypeOneToOne, Target: KindUser, ReadOnly: true, OnDelete: Cascade},
			{Name: "bio", Column: "bio", Type: TypeText, Required: true},
			{Name: "birth_date", Column: "birth_date", Type: TypeDate, Required: true},
		},
	},
	KindComment: {
		Kind:  KindComment,
		Table: "comments",
		Fields: []Field{
			idField(),
			{Name: "author", Column: "author_id", Type: TypeRef, Target: KindUser, Required: true, OnDelete: Cascade},
			{Name: "datetime", Column: "datetime", Type: TypeTimestamp, ReadOnly: true},
			{Name: "content", Column: "content", Type: TypeText, Required: true},
		},
	},
	KindModelC: {
		Kind:  KindModelC,
		Table: "model_c",
		Fields: []Field{
			idField(),
			{Name: "content", Column: "content", Type: TypeText, Required: true, MaxLength: 128},
		},
	},
	KindModelB: {
		Kind:  KindModelB,
		Table: "model_b",
		Fields: []Field{
			idField(),
			{Name: "model_c", Column: "model_c_id", Type: TypeRef, Target: KindModelC, Required: true, OnDelete: Cascade},
			{Name: "content", Column: "content", Type: TypeText, Required: true, MaxLength: 128},
		},
	},
	KindModelA: {
		Kind:  KindModelA,
		Table: "model_a",
		Fields: []Field{
			idField(),
			{Name: "model_b", Column: "model_b_id", Type: TypeRef, Target: KindModelB, Required: true, OnDelete: Cascade},
			{Name: "content", Column: "content", Type: TypeText, Required: true, MaxLength: 128},
		},
	},
}
