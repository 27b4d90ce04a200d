package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewAssetEvent(t *testing.T) {
	evt := NewAssetEvent(AssetMoved, 7).WithOffice(2)
	require.NotEmpty(t, evt.EventID)
	require.Equal(t, AssetMoved, evt.EventType)
	require.Equal(t, int64(7), evt.AssetID)
	require.Equal(t, int64(2), evt.OfficeID)
	require.Zero(t, evt.LicenseID)
	require.False(t, evt.OccurredAt.IsZero())

	other := NewAssetEvent(AssetMoved, 7)
	require.NotEqual(t, evt.EventID, other.EventID)
}

func TestToMessage(t *testing.T) {
	evt := NewAssetEvent(AssetSoftwareInstalled, 42).WithLicense(3)
	msg, err := toMessage(evt)
	require.NoError(t, err)
	require.Equal(t, "42", string(msg.Key))
	require.Len(t, msg.Headers, 1)
	require.Equal(t, "event_type", msg.Headers[0].Key)
	require.Equal(t, AssetSoftwareInstalled, string(msg.Headers[0].Value))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	require.Equal(t, float64(3), decoded["license_id"])
	require.NotContains(t, decoded, "office_id")
}

func TestNewKafkaPublisher_RequiresBrokersAndTopic(t *testing.T) {
	_, err := NewKafkaPublisher(nil, "topic")
	require.Error(t, err)
	_, err = NewKafkaPublisher([]string{"localhost:9092"}, "")
	require.Error(t, err)

	pub, err := NewKafkaPublisher([]string{"localhost:9092"}, "inventory.asset-events")
	require.NoError(t, err)
	require.NoError(t, pub.Close())
}
