package telemetry

import (
	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"
)

const appID = "uartmsg"

// DeviceID derives a stable ID from the machine ID, without exposing it.
func DeviceID() string {
	id, err := machineid.ProtectedID(appID)
	if err != nil {
		glog.Warningf("machine id unavailable: %v", err)
		return "unknown"
	}
	if len(id) > 12 {
		id = id[:12]
	}
	return id
}
