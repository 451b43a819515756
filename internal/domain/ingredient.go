package domain

// Ingredient is reference data loaded by the seed command; the API never writes it.
type Ingredient struct {
	ID              int64  `json:"id" gorm:"primaryKey"`
	Name            string `json:"name" gorm:"size:200;not null;index"`
	MeasurementUnit string `json:"measurement_unit" gorm:"size:200;not null"`
}

func (Ingredient) TableName() string {
	return "ingredients"
}

type Tag struct {
	ID    int64  `json:"id" gorm:"primaryKey"`
	Name  string `json:"name" gorm:"size:200;uniqueIndex;not null"`
	Color string `json:"color" gorm:"size:7;uniqueIndex;not null"`
	Slug  string `json:"slug" gorm:"size:200;uniqueIndex;not null"`
}

func (Tag) TableName() string {
	return "tags"
}
