package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"

	"payment-gateway-core/pkg/apperror"
	"payment-gateway-core/pkg/cryptoutil"
)

// reservedTokenField mirrors cryptoutil's reserved-key exclusion so the
// field never ends up projected as an ordinary canonical parameter.
const reservedTokenField = "token"

// canonicalParamsFromBody decodes the raw JSON body (already read and
// restored by TeamSignatureAuth) and flattens its top-level scalar
// fields into a cryptoutil.CanonicalParams projection: nested objects,
// arrays, and nulls are excluded per spec §4.1, numbers are decoded via
// json.Number so an integer like Amount round-trips as "1050" rather
// than Go's float64 formatting of "1050".
func canonicalParamsFromBody(body []byte) (params cryptoutil.CanonicalParams, teamSlug, token string, err error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var raw map[string]interface{}
	if err := dec.Decode(&raw); err != nil {
		return nil, "", "", apperror.ErrValidation("request body must be a JSON object")
	}

	params = make(cryptoutil.CanonicalParams, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case string:
			if strings.EqualFold(k, "teamslug") {
				teamSlug = val
			}
			if strings.EqualFold(k, reservedTokenField) {
				token = val
				continue
			}
			params[k] = val
		case json.Number:
			params[k] = val.String()
		case bool:
			if val {
				params[k] = "true"
			} else {
				params[k] = "false"
			}
		default:
			// nested object, array, or null: excluded per spec §4.1.
			continue
		}
	}

	return params, teamSlug, token, nil
}

// readAndRestoreBody drains c's request body and replaces it with an
// equivalent reader, so a later c.ShouldBindJSON still works.
func readAndRestoreBody(body io.ReadCloser) ([]byte, io.ReadCloser, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, nil, err
	}
	return raw, io.NopCloser(bytes.NewReader(raw)), nil
}
