package usage

// Cohorts identifies the client groups the report filters on and breaks
// sessions down by.
type Cohorts struct {
	ABekaDistrictID     int    `mapstructure:"a_beka_district_id"`
	BECDistrictGroupID  int    `mapstructure:"bec_district_group_id"`
	FrogStreetPattern   string `mapstructure:"frog_street_pattern"`
	ExcludedDistrictIDs []int  `mapstructure:"excluded_district_ids"`
	ExcludedGroupIDs    []int  `mapstructure:"excluded_group_ids"`
	DemoPattern         string `mapstructure:"demo_pattern"`
	BenchmarkPattern    string `mapstructure:"benchmark_pattern"`
	EntrySourceID       int    `mapstructure:"entry_source_id"`
	EntryTestTypes      []int  `mapstructure:"entry_test_types"`
}

// DefaultCohorts returns the production cohort definitions.
func DefaultCohorts() Cohorts {
	return Cohorts{
		ABekaDistrictID:     2479,
		BECDistrictGroupID:  112,
		FrogStreetPattern:   "%frog street%",
		ExcludedDistrictIDs: []int{2680, 2479},
		ExcludedGroupIDs:    []int{112, 114},
		DemoPattern:         "%demo%",
		BenchmarkPattern:    "%linkit%form%",
		EntrySourceID:       3,
		EntryTestTypes:      []int{1, 5},
	}
}
