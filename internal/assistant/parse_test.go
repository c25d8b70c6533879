package assistant

import "testing"

func TestParseModelReplyPureJSON(t *testing.T) {
	reply := ParseModelReply(`{"sql":"SELECT 1 AS total","explicacao":"O total é {{total}}."}`)
	if reply.SQL != "SELECT 1 AS total" {
		t.Fatalf("SQL = %q", reply.SQL)
	}
	if reply.Explanation != "O total é {{total}}." {
		t.Fatalf("Explanation = %q", reply.Explanation)
	}
}

func TestParseModelReplyFencedJSON(t *testing.T) {
	raw := "```json\n{\"sql\":\"SELECT 1\",\"explicacao\":\"ok\"}\n```"
	reply := ParseModelReply(raw)
	if reply.SQL != "SELECT 1" {
		t.Fatalf("SQL = %q", reply.SQL)
	}
	if reply.Explanation != "ok" {
		t.Fatalf("Explanation = %q", reply.Explanation)
	}
}

func TestParseModelReplyProseFallback(t *testing.T) {
	raw := "Olá! Como posso ajudar?"
	reply := ParseModelReply(raw)
	if reply.SQL != "" {
		t.Fatalf("SQL = %q, want empty", reply.SQL)
	}
	if reply.Explanation != raw {
		t.Fatalf("Explanation = %q", reply.Explanation)
	}
}

func TestParseModelReplyJSONInsideProse(t *testing.T) {
	raw := `Aqui está: {"sql":"SELECT 2 AS n","explicacao":"{{n}}"} espero que ajude`
	reply := ParseModelReply(raw)
	if reply.SQL != "SELECT 2 AS n" {
		t.Fatalf("SQL = %q", reply.SQL)
	}
}

func TestParseModelReplyEnglishExplanationKey(t *testing.T) {
	reply := ParseModelReply(`{"sql":"SELECT 1 AS n","explanation":"value is {{n}}"}`)
	if reply.Explanation != "value is {{n}}" {
		t.Fatalf("Explanation = %q", reply.Explanation)
	}
}

func TestParseModelReplyUnrelatedObjectFallsBack(t *testing.T) {
	raw := `{"foo":"bar"} texto solto`
	reply := ParseModelReply(raw)
	if reply.SQL != "" {
		t.Fatalf("SQL = %q", reply.SQL)
	}
	if reply.Explanation != raw {
		t.Fatalf("Explanation = %q", reply.Explanation)
	}
}

func TestParseModelReplyEmptyInput(t *testing.T) {
	reply := ParseModelReply("   ")
	if reply.SQL != "" || reply.Explanation != "" {
		t.Fatalf("reply = %+v, want zero value", reply)
	}
}
