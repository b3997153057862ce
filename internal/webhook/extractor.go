package webhook

import (
	"encoding/json"
	"net/http"
	"strings"
)

// flexibleID decodes a payment identifier that the gateway sends
// either as a JSON number or as a string.
type flexibleID string

func (f *flexibleID) UnmarshalJSON(data []byte) error {
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		*f = flexibleID(asString)
		return nil
	}
	var asNumber json.Number
	if err := json.Unmarshal(data, &asNumber); err != nil {
		return err
	}
	*f = flexibleID(asNumber.String())
	return nil
}

// notificationBody covers the two JSON notification shapes the gateway
// sends: the current `{"data":{"id":...}}` form and the legacy
// `{"resource":"...","topic":"payment"}` form.
type notificationBody struct {
	Data struct {
		ID flexibleID `json:"id"`
	} `json:"data"`
	Resource string `json:"resource"`
	Topic    string `json:"topic"`
}

// ExtractPaymentID pulls the payment identifier out of a gateway
// notification. Three shapes are known:
//
//  1. JSON body with `data.id`
//  2. JSON body with a `resource` payment URL and `topic=payment`
//  3. query parameters `data.id` or `id` (with `topic=payment`)
//
// The boolean is false when none of the shapes match; the caller
// acknowledges such notifications without acting on them.
func ExtractPaymentID(req *http.Request, body []byte) (string, bool) {
	if len(body) > 0 {
		var parsed notificationBody
		if err := json.Unmarshal(body, &parsed); err == nil {
			if id := string(parsed.Data.ID); id != "" {
				return id, true
			}
			if parsed.Topic == "payment" && parsed.Resource != "" {
				if id := lastPathSegment(parsed.Resource); id != "" {
					return id, true
				}
			}
		}
	}

	query := req.URL.Query()
	if id := query.Get("data.id"); id != "" {
		return id, true
	}
	if id := query.Get("id"); id != "" && query.Get("topic") == "payment" {
		return id, true
	}

	return "", false
}

// lastPathSegment returns the trailing segment of a resource URL, which
// is the payment identifier in the legacy notification shape.
func lastPathSegment(resource string) string {
	trimmed := strings.TrimRight(resource, "/")
	idx := strings.LastIndex(trimmed, "/")
	if idx < 0 {
		return trimmed
	}
	return trimmed[idx+1:]
}
