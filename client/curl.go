package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"sort"
	"strings"

	"github.com/feco/api-smoke-tests/framework"

	"github.com/alessio/shellescape"
)

const redacted = "<redacted>"

// Keys of JSON request bodies whose values are never logged. Matching ignores case.
var secretKeys = map[string]bool{
	"password": true,
}

type commandBuilder []string

func (b *commandBuilder) add(args ...string) {
	for _, a := range args {
		*b = append(*b, shellescape.Quote(a))
	}
}

func (b commandBuilder) String() string {
	return strings.Join(b, " ")
}

// curlCommand renders a request as a curl command line that can be pasted into a shell to
// reproduce it. The bearer token is redacted. Bodies that are not text are summarised instead
// of being inlined.
func curlCommand(req *http.Request, body []byte) string {
	var cmd commandBuilder
	cmd.add("curl", "-X", req.Method)

	names := make([]string, 0, len(req.Header))
	for name := range req.Header {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		for _, value := range req.Header[name] {
			if name == "Authorization" && strings.HasPrefix(value, "Bearer ") {
				value = "Bearer " + redacted
			}
			cmd.add("-H", name+": "+value)
		}
	}

	var note string
	if len(body) > 0 {
		if isText(req.Header.Get("Content-Type")) {
			cmd.add("--data-raw", string(redactSecrets(body)))
		} else {
			note = fmt.Sprintf(" # plus %d-byte %s body", len(body), req.Header.Get("Content-Type"))
		}
	}
	cmd.add(req.URL.String())
	return cmd.String() + note
}

// redactSecrets replaces the values of secretKeys, at any depth, in a JSON body. Bodies that are
// not JSON, or have nothing to redact, are returned unchanged.
func redactSecrets(body []byte) []byte {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil || dec.More() {
		return body
	}
	if !redactValue(v) {
		return body
	}
	var out bytes.Buffer
	enc := json.NewEncoder(&out)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return body
	}
	return bytes.TrimSuffix(out.Bytes(), []byte("\n"))
}

func redactValue(v interface{}) bool {
	changed := false
	switch v := v.(type) {
	case map[string]interface{}:
		for k, item := range v {
			if secretKeys[strings.ToLower(k)] {
				v[k] = redacted
				changed = true
				continue
			}
			changed = redactValue(item) || changed
		}
	case []interface{}:
		for _, item := range v {
			changed = redactValue(item) || changed
		}
	}
	return changed
}

func describeBody(contentType string, body []byte) string {
	if len(body) == 0 {
		return "(empty body)"
	}
	if !isText(contentType) {
		return fmt.Sprintf("(%d bytes of %s)", len(body), contentType)
	}
	return framework.Snippet(body)
}

func isText(contentType string) bool {
	if contentType == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return strings.HasPrefix(mediaType, "text/") ||
		mediaType == "application/json" ||
		strings.HasSuffix(mediaType, "+json")
}
