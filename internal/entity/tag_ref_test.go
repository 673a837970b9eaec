package entity

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestTagRefsUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    TagRefs
		wantErr bool
	}{
		{name: "混合引用", input: `[1, {"name": "go"}, "3"]`, want: TagRefs{ExistingTagRef{ID: 1}, NewTagRef{Name: "go"}, ExistingTagRef{ID: 3}}},
		{name: "空数组", input: `[]`, want: TagRefs{}},
		{name: "null", input: `null`, want: nil},
		{name: "零 id", input: `[0]`, wantErr: true},
		{name: "负数", input: `[-2]`, wantErr: true},
		{name: "非数字字符串", input: `["go"]`, wantErr: true},
		{name: "非数组", input: `{"name": "go"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got TagRefs
			err := json.Unmarshal([]byte(tt.input), &got)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Unmarshal() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestBlogCreateRequestDecodesTags(t *testing.T) {
	payload := `{"title":"A","author":"zxy","abstract":"x","category":1,"tag":[{"name":"go"}],"content":"body"}`
	var req BlogCreateRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if len(req.Tag) != 1 || req.Tag[0] != (NewTagRef{Name: "go"}) {
		t.Errorf("unexpected tags %#v", req.Tag)
	}

	out, err := json.Marshal(TagRefs{ExistingTagRef{ID: 2}, NewTagRef{Name: "go"}})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(out) != `[2,{"name":"go"}]` {
		t.Errorf("Marshal() = %s", out)
	}
}
