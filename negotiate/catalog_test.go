package negotiate

import (
	"testing"

	"github.com/andaru/tn3270/datastream"
	"github.com/stretchr/testify/assert"
)

func TestDeviceGeometry(t *testing.T) {
	for _, tc := range []struct {
		name string
		want datastream.Geometry
		ok   bool
	}{
		{"IBM-3278-2", datastream.Geometry{Rows: 24, Cols: 80}, true},
		{"IBM-3278-3", datastream.Geometry{Rows: 32, Cols: 80}, true},
		{"IBM-3279-4-E", datastream.Geometry{Rows: 43, Cols: 80}, true},
		{"ibm-3279-5-e", datastream.Geometry{Rows: 27, Cols: 132}, true},
		{"IBM-3278-9", datastream.Geometry{}, false},
		{"IBM-DYNAMIC", datastream.Geometry{}, false},
	} {
		g, ok := DeviceGeometry(tc.name)
		assert.Equal(t, tc.ok, ok, tc.name)
		assert.Equal(t, tc.want, g, tc.name)
	}
}

func TestFunctions(t *testing.T) {
	a := assert.New(t)
	fs, err := ParseFunctions("responses, BIND-IMAGE,,responses")
	a.NoError(err)
	a.Equal(FunctionSet{FunctionResponses, FunctionBindImage}, fs)
	a.Equal([]byte{0x02, 0x00}, fs.Bytes())
	a.Equal("[RESPONSES BIND-IMAGE]", fs.String())
	a.True(fs.Has(FunctionBindImage))
	a.False(fs.Has(FunctionSysReq))

	fs, err = ParseFunctions("")
	a.NoError(err)
	a.Nil(fs)

	_, err = ParseFunctions("responses,tn3270")
	a.EqualError(err, `unknown TN3270E function "tn3270"`)

	var f Function
	a.NoError(f.UnmarshalText([]byte("scs-ctl-codes")))
	a.Equal(FunctionSCSCtlCodes, f)
	b, _ := f.MarshalText()
	a.Equal("scs-ctl-codes", string(b))
	a.Equal("Function(09)", Function(9).String())

	confirmed, extra := functionSetOf([]byte{0x02}, FunctionSet{FunctionResponses})
	a.Nil(extra)
	a.Equal(FunctionSet{FunctionResponses}, confirmed)
	_, extra = functionSetOf([]byte{0x04}, FunctionSet{FunctionResponses})
	if a.NotNil(extra) {
		a.Equal(FunctionSysReq, *extra)
	}
}
