package clinfo

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/dustin/go-humanize"
)

// Diff lists the differences between two documents, one line per changed
// field, addressed by document keys, e.g.
//
//	OpenCL Platform[0].OpenCL Device[1].CL_DEVICE_NAME: "a" -> "b"
//
// An empty result means the documents are structurally identical.
func Diff(a, b Document) []string {
	var out []string
	diffValue("", reflect.ValueOf(a.Normalized()), reflect.ValueOf(b.Normalized()), &out)
	return out
}

func diffValue(path string, a, b reflect.Value, out *[]string) {
	switch a.Kind() {
	case reflect.Struct:
		t := a.Type()
		for i := 0; i < t.NumField(); i++ {
			name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
			if name == "" {
				name = t.Field(i).Name
			}
			child := name
			if path != "" {
				child = path + "." + name
			}
			diffValue(child, a.Field(i), b.Field(i), out)
		}
	case reflect.Slice:
		if a.Len() != b.Len() {
			*out = append(*out, fmt.Sprintf("%s: length %d -> %d", path, a.Len(), b.Len()))
		}
		for i := 0; i < min(a.Len(), b.Len()); i++ {
			diffValue(fmt.Sprintf("%s[%d]", path, i), a.Index(i), b.Index(i), out)
		}
	default:
		if !a.Equal(b) {
			*out = append(*out, fmt.Sprintf("%s: %s -> %s", path, formatScalar(path, a), formatScalar(path, b)))
		}
	}
}

func formatScalar(path string, v reflect.Value) string {
	if strings.HasSuffix(path, "CL_DEVICE_MAX_MEM_ALLOC_SIZE") {
		return fmt.Sprintf("%d (%s)", v.Uint(), humanize.IBytes(v.Uint()))
	}
	if v.Kind() == reflect.String {
		return fmt.Sprintf("%q", v.String())
	}
	if v.Type() == reflect.TypeOf(DeviceType(0)) {
		t := DeviceType(v.Uint())
		return fmt.Sprintf("%d (%s)", uint64(t), t)
	}
	return fmt.Sprintf("%v", v.Interface())
}
