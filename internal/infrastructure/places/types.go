package places

// Provider status values shared by the Places and Geocoding web services
const (
	StatusOK             = "OK"
	StatusZeroResults    = "ZERO_RESULTS"
	StatusNotFound       = "NOT_FOUND"
	StatusOverQueryLimit = "OVER_QUERY_LIMIT"
	StatusRequestDenied  = "REQUEST_DENIED"
	StatusInvalidRequest = "INVALID_REQUEST"
	StatusUnknownError   = "UNKNOWN_ERROR"
)

type latLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type geometry struct {
	Location latLng `json:"location"`
}

// nearbySearchResponse is the body of /place/nearbysearch/json
type nearbySearchResponse struct {
	Results       []placeResult `json:"results"`
	Status        string        `json:"status"`
	ErrorMessage  string        `json:"error_message,omitempty"`
	NextPageToken string        `json:"next_page_token,omitempty"`
}

type placeResult struct {
	PlaceID  string   `json:"place_id"`
	Name     string   `json:"name"`
	Vicinity string   `json:"vicinity"`
	Geometry geometry `json:"geometry"`
	Types    []string `json:"types"`
	Rating   *float64 `json:"rating,omitempty"`
}

// placeDetailsResponse is the body of /place/details/json
type placeDetailsResponse struct {
	Result       placeDetailsResult `json:"result"`
	Status       string             `json:"status"`
	ErrorMessage string             `json:"error_message,omitempty"`
}

type placeDetailsResult struct {
	FormattedPhoneNumber     string        `json:"formatted_phone_number,omitempty"`
	InternationalPhoneNumber string        `json:"international_phone_number,omitempty"`
	FormattedAddress         string        `json:"formatted_address,omitempty"`
	Website                  string        `json:"website,omitempty"`
	OpeningHours             *openingHours `json:"opening_hours,omitempty"`
	Reviews                  []review      `json:"reviews,omitempty"`
}

type openingHours struct {
	OpenNow     *bool    `json:"open_now,omitempty"`
	WeekdayText []string `json:"weekday_text,omitempty"`
}

type review struct {
	AuthorName              string `json:"author_name"`
	Rating                  int    `json:"rating"`
	Text                    string `json:"text"`
	RelativeTimeDescription string `json:"relative_time_description"`
}

// geocodeResponse is the body of /geocode/json
type geocodeResponse struct {
	Results      []geocodeResult `json:"results"`
	Status       string          `json:"status"`
	ErrorMessage string          `json:"error_message,omitempty"`
}

type geocodeResult struct {
	FormattedAddress string   `json:"formatted_address"`
	Geometry         geometry `json:"geometry"`
}
