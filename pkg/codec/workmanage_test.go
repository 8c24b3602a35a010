package codec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWorkManageRequestRoundTrip(t *testing.T) {
	req := WorkManageRequest{
		ManageType: ManageStart,
		WorkType:   WorkTypeArea,
		CleanIDs:   []byte{1, 2, 3},
		CustomArea: []Point{{X: 1, Y: 1}, {X: 2, Y: 2}},
		RemoteMove: RemoteMoveBlock{MoveType: 1, LastTime: 500, Velocity: -10, AngularVelocity: 20},
	}
	buf := EncodeWorkManageRequest(req)
	decoded, err := DecodeWorkManageRequest(buf)
	require.NoError(t, err)
	require.Equal(t, req.ManageType, decoded.ManageType)
	require.Equal(t, req.WorkType, decoded.WorkType)
	require.Equal(t, req.CleanIDs, decoded.CleanIDs)
	require.Equal(t, req.RemoteMove, decoded.RemoteMove)
	require.Len(t, decoded.CustomArea, 2)
}
