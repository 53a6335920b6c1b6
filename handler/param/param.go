package param

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/schema"
)

var decoder = schema.NewDecoder()

func init() {
	decoder.SetAliasTag("json")
	decoder.IgnoreUnknownKeys(true)
}

// Binding binds query values (GET) or the json body into params.
func Binding(r *http.Request, params interface{}) error {
	if r.Method == http.MethodGet {
		if err := r.ParseForm(); err != nil {
			return err
		}
		return decoder.Decode(params, r.Form)
	}
	return json.NewDecoder(r.Body).Decode(params)
}
