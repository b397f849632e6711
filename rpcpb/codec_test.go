package rpcpb

import "testing"

func TestJSONCodecRoundTrip(t *testing.T) {
	c := jsonCodec{}
	in := &SubmitTaskRequest{FunctionName: "concat", Args: []TaskArg{{IsRef: true, Ref: 7}}}

	b, err := c.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var out SubmitTaskRequest
	if err := c.Unmarshal(b, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if out.FunctionName != in.FunctionName || len(out.Args) != 1 || out.Args[0].Ref != 7 {
		t.Fatalf("round trip mismatch: got %+v, want %+v", out, in)
	}
}

func TestCodecNameMatchesRegisteredSubtype(t *testing.T) {
	if (jsonCodec{}).Name() != CodecName {
		t.Fatalf("jsonCodec.Name() = %q, want %q", (jsonCodec{}).Name(), CodecName)
	}
}
