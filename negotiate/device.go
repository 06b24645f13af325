package negotiate

import (
	"strings"

	"github.com/andaru/tn3270/datastream"
)

// DefaultDeviceType is requested when Config.DeviceType is empty
const DefaultDeviceType = "IBM-3278-2"

// model geometries for 3278 and 3279 terminals
var modelGeometry = map[string]datastream.Geometry{
	"2": {Rows: 24, Cols: 80},
	"3": {Rows: 32, Cols: 80},
	"4": {Rows: 43, Cols: 80},
	"5": {Rows: 27, Cols: 132},
}

// DeviceGeometry returns the screen geometry of a device type name such
// as IBM-3278-2 or IBM-3279-5-E, and false for names outside the catalog
func DeviceGeometry(name string) (datastream.Geometry, bool) {
	name = strings.TrimSuffix(strings.ToUpper(name), "-E")
	for _, prefix := range []string{"IBM-3278-", "IBM-3279-"} {
		if model := strings.TrimPrefix(name, prefix); model != name {
			g, ok := modelGeometry[model]
			return g, ok
		}
	}
	return datastream.Geometry{}, false
}
