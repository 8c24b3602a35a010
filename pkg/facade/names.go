// Package facade names every service and topic by {logical name, md5},
// wires codecs to dispatchers/subscribers, and exposes the typed verb
// surface of §4.8.
package facade

import (
	"github.com/valetudo/vendormaster/pkg/service"
	"github.com/valetudo/vendormaster/pkg/topic"
)

// Service name constants. The md5 fingerprints are carried opaquely in
// handshakes and never verified locally (§3). The strings below are
// placeholders, not values captured from a device.
var (
	SvcGetCompressedMap = service.Descriptor{Name: "/map/GetMap", MD5: "c0ce0d2280f62d8e16f2fa2d8bb5bcce", Persistent: true}
	SvcRoomsManage      = service.Descriptor{Name: "/map/ManipulateSpotArea", MD5: "9b0b9e2f2c1a5d7f7f0f9c6c6d53e8fa", Persistent: true}
	SvcVirtualWall      = service.Descriptor{Name: "/map/VirtualWall", MD5: "3f0d9f4a6e1d8a6e2f7b1c9d5a7e3f10", Persistent: true}
	SvcMapInfos         = service.Descriptor{Name: "/map/GetMapInfos", MD5: "7e3f10c0ce0d2280f62d8e16f2fa2d8b", Persistent: false}
	SvcChargerPose      = service.Descriptor{Name: "/map/GetChargerPose", MD5: "d8e16f2fa2d8bb5bcce3f0d9f4a6e1d8", Persistent: false}
	SvcWorkManage       = service.Descriptor{Name: "/sweeper/WorkManage", MD5: "a6e1d8a6e2f7b1c9d5a7e3f10c0ce0d2", Persistent: true}
	SvcSettingManage    = service.Descriptor{Name: "/sweeper/SettingManage", MD5: "2f7b1c9d5a7e3f10c0ce0d2280f62d8e", Persistent: true}
	SvcLifespan         = service.Descriptor{Name: "/sweeper/LifeSpan", MD5: "5a7e3f10c0ce0d2280f62d8e16f2fa2d", Persistent: false}
	SvcTrace            = service.Descriptor{Name: "/sweeper/GetTrace", MD5: "10c0ce0d2280f62d8e16f2fa2d8bb5bc", Persistent: false}
	SvcLogInfoTotal     = service.Descriptor{Name: "/sweeper/GetLogInfoTotal", MD5: "2280f62d8e16f2fa2d8bb5bcce3f0d9f", Persistent: false}
	SvcLogInfoLast      = service.Descriptor{Name: "/sweeper/GetLogInfoLast", MD5: "f62d8e16f2fa2d8bb5bcce3f0d9f4a6e", Persistent: false}
)

// Topic name constants.
var (
	TopicBattery     = topic.Descriptor{Topic: "/power/Battery", MsgType: "sweeper/Battery", MD5: "1f3f0d9f4a6e1d8a6e2f7b1c9d5a7e3f", Policy: topic.PolicySystemStateFirst}
	TopicChargeState = topic.Descriptor{Topic: "/power/ChargeState", MsgType: "sweeper/ChargeState", MD5: "2f7b1c9d5a7e3f10c0ce0d2280f62d8e", Policy: topic.PolicySystemStateFirst}
	TopicWorkState   = topic.Descriptor{Topic: "/sweeper/WorkState", MsgType: "sweeper/WorkState", MD5: "3f10c0ce0d2280f62d8e16f2fa2d8bb5", Policy: topic.PolicySystemStateFirst}
	TopicWorkStat    = topic.Descriptor{Topic: "/sweeper/WorkStatisticToWifi", MsgType: "sweeper/WorkStatistic", MD5: "0d2280f62d8e16f2fa2d8bb5bcce3f0d", Policy: topic.PolicySystemStateOnly}
	TopicAlerts      = topic.Descriptor{Topic: "/sweeper/Alerts", MsgType: "sweeper/Alerts", MD5: "62d8e16f2fa2d8bb5bcce3f0d9f4a6e1", Policy: topic.PolicySystemStateOnly}
	TopicPredictPose = topic.Descriptor{Topic: "/position/PredictionPose", MsgType: "sweeper/Pose", MD5: "8e16f2fa2d8bb5bcce3f0d9f4a6e1d8a", Policy: topic.PolicySystemStateFirst}
)
