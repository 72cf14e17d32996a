package domain

// AgeGroup is the age bracket a toy is meant for.
type AgeGroup struct {
	AgeGroupID  int    `json:"ageGroupId"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// ToyType is a catalog category such as puzzles or plush toys.
type ToyType struct {
	TypeID      int    `json:"typeId"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Rating is a review copied onto a cached catalog entry. There is at most one
// per (ToyID, UserID); a newer one replaces the older.
type Rating struct {
	RatingID       int64  `json:"ratingId"`
	Rating         int    `json:"rating"`
	RespondentType string `json:"recesentType"`
	Comment        string `json:"comment"`
	CreatedAt      string `json:"createdAt"`
	UserID         int    `json:"userId"`
	ToyID          int    `json:"toyId"`
}

// Toy is a read-only catalog product.
type Toy struct {
	ToyID          int      `json:"toyId"`
	Name           string   `json:"name"`
	Permalink      string   `json:"permalink"`
	Description    string   `json:"description"`
	TargetGroup    string   `json:"targetGroup"`
	ProductionDate string   `json:"productionDate"`
	Price          float64  `json:"price"`
	ImageURL       string   `json:"imageUrl"`
	AgeGroup       AgeGroup `json:"ageGroup"`
	Type           ToyType  `json:"type"`
	Ratings        []Rating `json:"ratings"`
}
