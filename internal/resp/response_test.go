package resp

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
)

func TestNormalize_WrapsBodyWithoutCode(t *testing.T) {
	body := []byte(`{"list":[1,2,3],"total":3}`)

	result := Normalize(body)
	if !result.OK() {
		t.Error("Expected wrapped body to be OK")
	}
	if result.Code() != CodeOK {
		t.Errorf("Expected code %d, got %d", CodeOK, result.Code())
	}
	if result.Message() != "success" {
		t.Errorf("Expected message success, got %s", result.Message())
	}

	out, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	want := `{"code":200,"message":"success","data":{"list":[1,2,3],"total":3}}`
	if string(out) != want {
		t.Errorf("Expected %s, got %s", want, out)
	}
}

func TestNormalize_RelaysEnvelopeVerbatim(t *testing.T) {
	// 上游信封带额外字段，转发必须逐字节一致
	body := []byte(`{"code":200,"message":"操作成功","data":{"id":7},"timestamp":1699999999}`)

	result := Normalize(body)
	if !result.OK() {
		t.Error("Expected code 200 envelope to be OK")
	}

	out, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(out) != string(body) {
		t.Errorf("Expected verbatim relay %s, got %s", body, out)
	}
}

func TestNormalize_NonOKCode(t *testing.T) {
	body := []byte(`{"code":401,"message":"未登录","data":null}`)

	result := Normalize(body)
	if result.OK() {
		t.Error("Expected code 401 envelope to not be OK")
	}
	if result.Code() != 401 {
		t.Errorf("Expected code 401, got %d", result.Code())
	}
	if result.Message() != "未登录" {
		t.Errorf("Expected upstream message, got %s", result.Message())
	}
}

func TestNormalize_ErrorBodyWithoutCodeBecomesSuccess(t *testing.T) {
	// 上游用 404 返回不带 code 字段的错误体时，包装结果仍是 code:200，
	// 错误体嵌在 data 里。调用方依赖这一行为，不要"修复"它。
	body := []byte(`{"error":"not found"}`)

	result := Normalize(body)
	if !result.OK() {
		t.Error("Expected body without code field to wrap as OK")
	}

	out, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	want := `{"code":200,"message":"success","data":{"error":"not found"}}`
	if string(out) != want {
		t.Errorf("Expected %s, got %s", want, out)
	}
}

func TestNormalize_NonIntegerCodeWraps(t *testing.T) {
	body := []byte(`{"code":"E42","message":"oops"}`)

	result := Normalize(body)
	if !result.OK() {
		t.Error("Expected body with non-integer code to wrap as OK")
	}
	if string(result.Data()) != string(body) {
		t.Errorf("Expected original body as data, got %s", result.Data())
	}
}

func TestNormalize_EmptyBody(t *testing.T) {
	for _, body := range [][]byte{nil, {}, []byte("  \n")} {
		result := Normalize(body)
		if !result.OK() {
			t.Error("Expected empty body to be OK")
		}

		out, err := json.Marshal(result)
		if err != nil {
			t.Fatalf("Marshal failed: %v", err)
		}
		want := `{"code":200,"message":"success","data":null}`
		if string(out) != want {
			t.Errorf("Expected %s, got %s", want, out)
		}
	}
}

func TestNormalize_NonJSONBodyWraps(t *testing.T) {
	result := Normalize([]byte(`"plain string"`))
	if !result.OK() {
		t.Error("Expected JSON string body to wrap as OK")
	}
	if string(result.Data()) != `"plain string"` {
		t.Errorf("Expected string data, got %s", result.Data())
	}
}

func TestFailure(t *testing.T) {
	result := Failure(500, "server error: connection refused")
	if result.OK() {
		t.Error("Expected failure to not be OK")
	}

	out, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	want := `{"code":500,"message":"server error: connection refused","data":null}`
	if string(out) != want {
		t.Errorf("Expected %s, got %s", want, out)
	}
}

func TestWrite_SetsStatusAndContentType(t *testing.T) {
	rec := httptest.NewRecorder()
	Write(rec, 404, Failure(404, "not found"))

	if rec.Code != 404 {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("Unexpected Content-Type: %s", ct)
	}

	var env struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("Decode response failed: %v", err)
	}
	if env.Code != 404 || env.Message != "not found" {
		t.Errorf("Unexpected envelope: %+v", env)
	}
}
