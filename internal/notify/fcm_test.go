package notify

import (
	"context"
	"errors"
	"testing"

	"firebase.google.com/go/v4/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMulticaster struct {
	got  *messaging.MulticastMessage
	resp *messaging.BatchResponse
	err  error
}

func (f *fakeMulticaster) SendEachForMulticast(ctx context.Context, msg *messaging.MulticastMessage) (*messaging.BatchResponse, error) {
	f.got = msg
	return f.resp, f.err
}

func TestFCMSendMulticastAggregates(t *testing.T) {
	fake := &fakeMulticaster{resp: &messaging.BatchResponse{SuccessCount: 2, FailureCount: 1}}
	s := &FCMSender{client: fake, logger: discardLogger()}

	success, failed, err := s.SendMulticast(context.Background(),
		[]string{"t1", "t2", "t3"}, "title", "body", map[string]string{"link": "/x"})

	require.NoError(t, err)
	assert.Equal(t, 2, success)
	assert.Equal(t, 1, failed)

	require.NotNil(t, fake.got)
	assert.Equal(t, []string{"t1", "t2", "t3"}, fake.got.Tokens)
	assert.Equal(t, "title", fake.got.Notification.Title)
	assert.Equal(t, "body", fake.got.Notification.Body)
	assert.Equal(t, map[string]string{"link": "/x"}, fake.got.Data)
}

func TestFCMSendMulticastError(t *testing.T) {
	fake := &fakeMulticaster{err: errors.New("credential expired")}
	s := &FCMSender{client: fake, logger: discardLogger()}

	_, _, err := s.SendMulticast(context.Background(), []string{"t1"}, "t", "b", nil)
	assert.Error(t, err)
}
