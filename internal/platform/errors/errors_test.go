package errors

import (
	"encoding/json"
	stderrs "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatusCodeMapping(t *testing.T) {
	cases := []struct {
		code ErrorCode
		want int
	}{
		{ErrorCodeNotFound, http.StatusNotFound},
		{ErrorCodeInvalidArgument, http.StatusUnprocessableEntity},
		{ErrorCodeInvalidFormat, http.StatusUnprocessableEntity},
		{ErrorCodeEmptyUpload, http.StatusUnprocessableEntity},
		{ErrorCodeRowLimit, http.StatusRequestEntityTooLarge},
		{ErrorCodeDuplicateKey, http.StatusConflict},
		{ErrorCodeValidation, http.StatusBadRequest},
		{ErrorCodeJSON, http.StatusBadRequest},
		{ErrorCodeUnavailable, http.StatusServiceUnavailable},
		{ErrorCodeDB, http.StatusInternalServerError},
		{9999, http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := HTTPStatusCode(c.code); got != c.want {
			t.Fatalf("HTTPStatusCode(%v) = %d, want %d", c.code, got, c.want)
		}
	}
}

func TestCodeNames(t *testing.T) {
	if ErrorCodeRowLimit.String() != "ROW_LIMIT_EXCEEDED" {
		t.Fatalf("name = %q", ErrorCodeRowLimit.String())
	}
	if ErrorCode(9999).String() != "UNKNOWN" {
		t.Fatal("unregistered code should render UNKNOWN")
	}
	b, err := json.Marshal(New(ErrorCodeInvalidFormat, "not a table").(*Error).ToWire())
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"code":"INVALID_FORMAT","message":"not a table"}` {
		t.Fatalf("wire = %s", b)
	}
}

func TestErrorMethods(t *testing.T) {
	var nilErr *Error
	if nilErr.Error() != "<nil>" {
		t.Fatalf("nil render = %q", nilErr.Error())
	}

	src := stderrs.New("root")
	w := Wrapf(src, ErrorCodeDB, "save %s", "row")
	if w.Error() != "save row: root" {
		t.Fatalf("Error() = %q", w.Error())
	}
	if stderrs.Unwrap(w) != src {
		t.Fatal("Unwrap lost cause")
	}
	e, ok := As(w)
	if !ok || e.Message() != "save row" || e.Code() != ErrorCodeDB {
		t.Fatalf("As = %+v", e)
	}
	if _, ok := As(src); ok {
		t.Fatal("As true for foreign error")
	}

	f := WithOp(WithField(w, "email"), "upsert")
	fe, _ := As(f)
	if fe.Field() != "email" || fe.Op() != "upsert" {
		t.Fatalf("field/op = %q/%q", fe.Field(), fe.Op())
	}
	if orig, _ := As(w); orig.Field() != "" {
		t.Fatal("WithField mutated original")
	}
	if WithField(src, "x") != src {
		t.Fatal("foreign error should pass through WithField")
	}

	if wf := WireFrom(src); wf.Code != ErrorCodeUnknown || wf.Message != "root" {
		t.Fatalf("WireFrom foreign = %+v", wf)
	}
	if wf := WireFrom(nil); wf != (Wire{}) {
		t.Fatalf("WireFrom(nil) = %+v", wf)
	}
	if st, _ := HTTP(nil); st != http.StatusOK {
		t.Fatalf("HTTP(nil) = %d", st)
	}
	if st, wire := HTTP(InvalidFormatf("bad %s", "csv")); st != http.StatusUnprocessableEntity || wire.Message != "bad csv" {
		t.Fatalf("HTTP = %d %+v", st, wire)
	}
}

func TestSugarAndRoot(t *testing.T) {
	for _, c := range []struct {
		err  error
		code ErrorCode
	}{
		{NotFoundf("x"), ErrorCodeNotFound},
		{InvalidArgf("x"), ErrorCodeInvalidArgument},
		{Validationf("x"), ErrorCodeValidation},
		{JSONErrf("x"), ErrorCodeJSON},
		{PanicErrf("x"), ErrorCodePanic},
		{Unavailablef("x"), ErrorCodeUnavailable},
		{Internalf("x"), ErrorCodeUnknown},
		{InvalidFormatf("x"), ErrorCodeInvalidFormat},
	} {
		if !IsCode(c.err, c.code) {
			t.Fatalf("%v: code %v, want %v", c.err, CodeOf(c.err), c.code)
		}
	}
	if WrapIf(nil, ErrorCodeDB, "x") != nil {
		t.Fatal("WrapIf(nil) should be nil")
	}
	src := stderrs.New("root")
	deep := fmt.Errorf("l2: %w", fmt.Errorf("l1: %w", src))
	if Root(deep) != src {
		t.Fatalf("Root = %v", Root(deep))
	}
	if !IsCode(ErrNotFound, ErrorCodeNotFound) {
		t.Fatal("ErrNotFound code")
	}
}
