package interactive

import (
	"bytes"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keeko-protocol/keeko-go/pkg/schema"
	"github.com/keeko-protocol/keeko-go/pkg/wire"
)

func testShell(t *testing.T, catalog *schema.Catalog) (*Shell, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	return newShell(wire.NewCodec(), catalog, &out), &out
}

func TestShellSetGetDel(t *testing.T) {
	s, out := testShell(t, nil)

	assert.True(t, s.Exec("set 0x10=u32:42"))
	assert.True(t, s.Exec("set 2=string:hello world"))
	assert.Equal(t, 2, s.msg.Len())

	v, err := s.msg.Get(2)
	require.NoError(t, err)
	assert.Equal(t, wire.String("hello world"), v)

	out.Reset()
	s.Exec("get 16")
	assert.Equal(t, "0x00000010 = 42 (u32)\n", out.String())

	s.Exec("del 0x10")
	assert.False(t, s.msg.Has(16))

	out.Reset()
	s.Exec("get 16")
	assert.Contains(t, out.String(), "key not found")
}

func TestShellErrors(t *testing.T) {
	s, out := testShell(t, nil)

	for _, line := range []string{"set 1=u8:999", "set", "get", "get nope", "del 5", "decode zz", "frobnicate"} {
		out.Reset()
		assert.True(t, s.Exec(line), line)
		assert.NotEmpty(t, out.String(), line)
	}
	assert.Equal(t, 0, s.msg.Len())
}

func TestShellEncodeDecode(t *testing.T) {
	s, out := testShell(t, nil)
	s.Exec("set 1=bool:true")
	s.Exec("set 3=i64:-5")

	out.Reset()
	s.Exec("encode")
	line := strings.SplitN(out.String(), "\n", 2)[0]
	data, err := hex.DecodeString(line)
	require.NoError(t, err)
	assert.Equal(t, s.msg.Encode(), data)

	want := s.msg.Clone()
	s.Exec("clear")
	assert.Equal(t, 0, s.msg.Len())

	out.Reset()
	s.Exec("decode " + line)
	assert.Equal(t, "Decoded 2 fields\n", out.String())
	assert.True(t, want.Equal(s.msg))
}

func TestShellEncodeEmptyMessage(t *testing.T) {
	s, out := testShell(t, nil)

	s.Exec("encode")
	assert.Contains(t, out.String(), "no fields")
	assert.NotContains(t, out.String(), "ffff")

	// Decoding the bare checksum is refused and leaves the message alone.
	out.Reset()
	s.Exec("decode ffff")
	assert.Contains(t, out.String(), "INVALID_LENGTH")
	assert.Equal(t, 0, s.msg.Len())
}

func TestShellDecodeKeepsMessageOnError(t *testing.T) {
	s, out := testShell(t, nil)
	s.Exec("set 1=u8:1")

	s.Exec("decode 0102")
	assert.Contains(t, out.String(), "INVALID_LENGTH")
	assert.Equal(t, 1, s.msg.Len())
}

func TestShellShowAndDump(t *testing.T) {
	s, out := testShell(t, nil)

	s.Exec("show")
	assert.Equal(t, "(empty message)\n", out.String())

	s.Exec("set 1=u16:7")
	out.Reset()
	s.Exec("show")
	assert.Contains(t, out.String(), "0x00000001")

	out.Reset()
	s.Exec("dump")
	assert.Contains(t, out.String(), "checksum=0x")
}

func TestShellCatalog(t *testing.T) {
	catalog, err := schema.Parse([]byte(`
name: t
fields:
  - name: temperature
    kind: f32
    required: true
  - name: label
    kind: string
`))
	require.NoError(t, err)
	s, out := testShell(t, catalog)

	s.Exec("fields")
	assert.Contains(t, out.String(), "temperature")
	assert.Contains(t, out.String(), "missing required field")

	s.Exec("set temperature=21.5")
	v, err := s.msg.Get(wire.KeyOf("temperature"))
	require.NoError(t, err)
	assert.Equal(t, wire.F32(21.5), v)

	out.Reset()
	s.Exec("get temperature")
	assert.Equal(t, "temperature = 21.5 (f32)\n", out.String())

	s.Exec("del temperature")
	assert.Equal(t, 0, s.msg.Len())
}

func TestShellQuit(t *testing.T) {
	s, _ := testShell(t, nil)
	assert.False(t, s.Exec("quit"))
	assert.False(t, s.Exec("Q"))
	assert.True(t, s.Exec("   "))
}
