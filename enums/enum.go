package enums

const (
	Breakfast = "breakfast"
	Lunch     = "lunch"
	Snacks    = "snacks"
	Dinner    = "dinner"

	MessVeg     = "veg"
	MessNonVeg  = "non-veg"
	MessSpecial = "special"

	QueueCatalogIngest   = "catalog-ingest"
	QueueSelectionReport = "selection-report"

	StoreGorm  = "gorm"
	StoreMongo = "mongo"

	MostPopular = "Most popular"
	SecondMost  = "2nd most"
	ThirdMost   = "3rd most"

	FinishedStatus = "finished"
	FailedStatus   = "failed"
	PartialStatus  = "partial"
)
