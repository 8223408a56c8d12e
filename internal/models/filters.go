package models

// LocationPointFilter represents filter parameters for querying location points
type LocationPointFilter struct {
	StartTime int64 `form:"startTime"` // Unix timestamp, inclusive
	EndTime   int64 `form:"endTime"`   // Unix timestamp, exclusive
	Page      int   `form:"page"`
	PageSize  int   `form:"pageSize"` // 0 = no pagination
}

// PlaceFilter represents filter parameters for querying known locations
type PlaceFilter struct {
	Category string `form:"category"`
	TripID   string `form:"tripId"` // Empty = global registry only
}

// TimelineQuery represents query parameters for the day timeline endpoint
type TimelineQuery struct {
	Timezone string `form:"tz"`
	Persist  bool   `form:"persist"`
}
