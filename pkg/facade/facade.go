package facade

import (
	"context"
	"os"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/valetudo/vendormaster/internal/rpcerr"
	"github.com/valetudo/vendormaster/pkg/codec"
	"github.com/valetudo/vendormaster/pkg/ipchelper"
	"github.com/valetudo/vendormaster/pkg/master"
	"github.com/valetudo/vendormaster/pkg/service"
	"github.com/valetudo/vendormaster/pkg/topic"
)

// Config bundles the facade's master/caller-id/timeout configuration; it
// is resolved once at construction from explicit overrides, falling back
// to environment variables and then the fixed defaults of §6.4.
type Config struct {
	MasterURI string
	CallerID  string
	CallTO    time.Duration
	ConnectTO time.Duration
}

// DefaultConfig returns the named fallbacks, with the master URI and caller
// id taken from MDS_MASTER_URI and MDS_CALLER_ID when those are set.
func DefaultConfig() Config {
	cfg := Config{
		MasterURI: master.DefaultMasterURI,
		CallerID:  master.DefaultCallerID,
		CallTO:    5000 * time.Millisecond,
		ConnectTO: 4000 * time.Millisecond,
	}
	if v := os.Getenv("MDS_MASTER_URI"); v != "" {
		cfg.MasterURI = v
	}
	if v := os.Getenv("MDS_CALLER_ID"); v != "" {
		cfg.CallerID = v
	}
	return cfg
}

// Facade owns one dispatcher per service and one subscriber per topic,
// wiring the codec catalogue to the typed verb surface below.
type Facade struct {
	cfg    Config
	master *master.Client
	ipc    *ipchelper.Invoker

	dMap          *service.Dispatcher
	dRooms        *service.Dispatcher
	dWall         *service.Dispatcher
	dMapInfos     *service.Dispatcher
	dChargerPose  *service.Dispatcher
	dWorkManage   *service.Dispatcher
	dSettings     *service.Dispatcher
	dLifespan     *service.Dispatcher
	dTrace        *service.Dispatcher
	dLogTotal     *service.Dispatcher
	dLogLast      *service.Dispatcher

	sBattery     *topic.Subscriber
	sChargeState *topic.Subscriber
	sWorkState   *topic.Subscriber
	sWorkStat    *topic.Subscriber
	sAlerts      *topic.Subscriber
	sPredictPose *topic.Subscriber
}

// New constructs a Facade and all of its dispatchers/subscribers, but does
// not start any of them — call Start for that.
func New(cfg Config) *Facade {
	mc := master.NewClient(cfg.MasterURI, cfg.CallTO)

	svcCfg := service.Config{CallerID: cfg.CallerID, ConnectTO: cfg.ConnectTO, CallTO: cfg.CallTO}
	topicCfg := topic.Config{CallerID: cfg.CallerID, ConnectTO: cfg.ConnectTO, ReadTO: cfg.CallTO}

	f := &Facade{cfg: cfg, master: mc, ipc: ipchelper.NewInvoker()}

	f.dMap = service.NewDispatcher(SvcGetCompressedMap, mc, svcCfg)
	f.dRooms = service.NewDispatcher(SvcRoomsManage, mc, svcCfg)
	f.dWall = service.NewDispatcher(SvcVirtualWall, mc, svcCfg)
	f.dMapInfos = service.NewDispatcher(SvcMapInfos, mc, svcCfg)
	f.dChargerPose = service.NewDispatcher(SvcChargerPose, mc, svcCfg)
	f.dWorkManage = service.NewDispatcher(SvcWorkManage, mc, svcCfg)
	f.dSettings = service.NewDispatcher(SvcSettingManage, mc, svcCfg)
	f.dLifespan = service.NewDispatcher(SvcLifespan, mc, svcCfg)
	f.dTrace = service.NewDispatcher(SvcTrace, mc, svcCfg)
	f.dLogTotal = service.NewDispatcher(SvcLogInfoTotal, mc, svcCfg)
	f.dLogLast = service.NewDispatcher(SvcLogInfoLast, mc, svcCfg)

	battery := TopicBattery
	battery.Decode = codec.DecodeBattery
	f.sBattery = topic.NewSubscriber(battery, mc, topicCfg)

	chargeState := TopicChargeState
	chargeState.Decode = codec.DecodeChargeState
	f.sChargeState = topic.NewSubscriber(chargeState, mc, topicCfg)

	workState := TopicWorkState
	workState.Decode = codec.DecodeWorkState
	f.sWorkState = topic.NewSubscriber(workState, mc, topicCfg)

	workStat := TopicWorkStat
	workStat.Decode = codec.DecodeWorkStatisticToWifi
	f.sWorkStat = topic.NewSubscriber(workStat, mc, topicCfg)

	alerts := TopicAlerts
	alerts.Decode = codec.DecodeAlerts
	f.sAlerts = topic.NewSubscriber(alerts, mc, topicCfg)

	predictPose := TopicPredictPose
	predictPose.Decode = codec.DecodePredictionPose
	f.sPredictPose = topic.NewSubscriber(predictPose, mc, topicCfg)

	return f
}

func (f *Facade) subscribers() []*topic.Subscriber {
	return []*topic.Subscriber{f.sBattery, f.sChargeState, f.sWorkState, f.sWorkStat, f.sAlerts, f.sPredictPose}
}

func (f *Facade) dispatchers() []*service.Dispatcher {
	return []*service.Dispatcher{
		f.dMap, f.dRooms, f.dWall, f.dMapInfos, f.dChargerPose, f.dWorkManage,
		f.dSettings, f.dLifespan, f.dTrace, f.dLogTotal, f.dLogLast,
	}
}

// Start concurrently starts every topic subscriber. Dispatchers need no
// explicit start: they connect lazily on first call.
func (f *Facade) Start(ctx context.Context) error {
	var g errgroup.Group
	for _, s := range f.subscribers() {
		s := s
		g.Go(func() error {
			s.Start()
			return nil
		})
	}
	return g.Wait()
}

// Shutdown concurrently stops every subscriber and dispatcher.
func (f *Facade) Shutdown(ctx context.Context) error {
	var g errgroup.Group
	for _, s := range f.subscribers() {
		s := s
		g.Go(func() error {
			s.Shutdown()
			return nil
		})
	}
	for _, d := range f.dispatchers() {
		d := d
		g.Go(func() error {
			d.Shutdown()
			return nil
		})
	}
	return g.Wait()
}

// --- map / rooms / active-map ---

// GetCompressedMap fetches and decodes the current compressed map.
func (f *Facade) GetCompressedMap(ctx context.Context) (*codec.CompressedMapReply, error) {
	resp, err := f.dMap.Call(ctx, codec.EncodeGetCompressedMapRequest())
	if err != nil {
		return nil, err
	}
	return codec.DecodeCompressedMapReply(resp)
}

// GetActiveMapID returns the active map id, failing with a Domain error if
// no map is currently active.
func (f *Facade) GetActiveMapID(ctx context.Context) (uint32, error) {
	entry, err := f.activeMapEntry(ctx)
	if err != nil {
		return 0, err
	}
	return entry.MapID, nil
}

func (f *Facade) activeMapEntry(ctx context.Context) (codec.MapInfoEntry, error) {
	resp, err := f.dMapInfos.Call(ctx, codec.EncodeMapInfosRequest())
	if err != nil {
		return codec.MapInfoEntry{}, err
	}
	reply, err := codec.DecodeMapInfosReply(resp)
	if err != nil {
		return codec.MapInfoEntry{}, err
	}
	entry, ok := codec.ActiveMap(reply)
	if !ok {
		return codec.MapInfoEntry{}, rpcerr.New(rpcerr.Domain, "active map not initialised")
	}
	return entry, nil
}

// isRoomsGetFallbackError reports whether err is one of the two
// firmware-compatibility substrings the rooms-GET fallback of §4.8
// recovers from.
func isRoomsGetFallbackError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "buffer overrun") || strings.Contains(msg, "broken pipe")
}

// ListRooms fetches and decodes the current map's rooms. If the first call
// fails with a buffer-overrun or broken-pipe error it calls once more with
// EncodeRoomsGetMinimalRequest's body, which is the same 5 bytes as the
// first request.
func (f *Facade) ListRooms(ctx context.Context) (*codec.RoomsReply, error) {
	mapID, err := f.GetActiveMapID(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := f.dRooms.Call(ctx, codec.EncodeRoomsGetRequest(mapID))
	if err != nil {
		if !isRoomsGetFallbackError(err) {
			return nil, err
		}
		resp, err = f.dRooms.Call(ctx, codec.EncodeRoomsGetMinimalRequest(mapID))
		if err != nil {
			return nil, err
		}
	}
	return codec.DecodeRoomsReply(resp)
}
