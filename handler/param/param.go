package param

import (
	"encoding/json"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi"
	"github.com/gorilla/schema"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

var decoder = schema.NewDecoder()

func init() {
	decoder.SetAliasTag("json")
	decoder.IgnoreUnknownKeys(true)
	decoder.RegisterConverter(decimal.Decimal{}, func(s string) reflect.Value {
		d, err := decimal.NewFromString(s)
		if err != nil {
			return reflect.Value{}
		}
		return reflect.ValueOf(d)
	})
}

// Binding binds request parameters into v; json bodies for posts, the query
// string otherwise
func Binding(r *http.Request, v interface{}) error {
	if r.Body != nil && strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		defer r.Body.Close()
		return json.NewDecoder(r.Body).Decode(v)
	}

	if err := r.ParseForm(); err != nil {
		return err
	}
	return decoder.Decode(v, r.Form)
}

// String reads a route or query parameter
func String(r *http.Request, key string) string {
	if v := chi.URLParam(r, key); v != "" {
		return v
	}
	return r.URL.Query().Get(key)
}

// UInt64 reads a route or query parameter as uint64, zero if absent or malformed
func UInt64(r *http.Request, key string) uint64 {
	return cast.ToUint64(String(r, key))
}
