package domain

// ModelC is the root of the ModelC -> ModelB -> ModelA ownership chain.
type ModelC struct {
	ID      int64
	Content string
}

// ModelB references its owning ModelC.
type ModelB struct {
	ID       int64
	ModelCID int64
	Content  string
}

// ModelA references its owning ModelB.
type ModelA struct {
	ID       int64
	ModelBID int64
	Content  string
}
