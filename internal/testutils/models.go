package testutils

import (
	"fmt"
	"testing"

	"github.com/aretw0/interleave/pkg/domain"
	"github.com/aretw0/interleave/pkg/dsl"
	"github.com/aretw0/interleave/pkg/process"
	"github.com/stretchr/testify/require"
)

// PingPong builds two processes: A sends M to B and waits for Ack; B answers
// every M with Ack.
func PingPong(t *testing.T) *process.Set {
	t.Helper()

	b := dsl.New()
	m := b.Message("M")
	ack := b.Message("Ack")

	b.Add("idle").Go("sent", b.Action("send", domain.Send(domain.To("B"), m)))
	b.Add("sent").On(ack, "idle", b.Action("receive"))
	b.Add("wait").On(m, "acked", b.Action("reply", domain.Send(domain.To("A"), ack)))
	b.Add("acked").Go("wait", b.Action("rearm"))

	g, err := b.Build()
	require.NoError(t, err)

	set := process.NewSet()
	_, err = set.AddProcess("A", g.MustNode("idle"))
	require.NoError(t, err)
	_, err = set.AddProcess("B", g.MustNode("wait"))
	require.NoError(t, err)
	return set
}

// DriverClient is a driver serving a number of clients that connect and
// disconnect while it loads and unloads.
type DriverClient struct {
	Set     *process.Set
	Graph   *dsl.Graph
	Driver  *process.Process
	Clients []*process.Process
}

// Driver and client node ids.
const (
	ClientNoDriver       = "tty_client_nodriver"
	ClientDisconnected   = "tty_client_disconnected"
	ClientWaitConnection = "tty_client_wait_connection"
	ClientConnected      = "tty_client_connected_state"
	ClientDisconnecting  = "tty_client_disconnecting"

	DriverUnloaded    = "tty_driver_unloaded"
	DriverLoading     = "tty_driver_loading"
	DriverLoaded      = "tty_driver_loaded"
	DriverUnloading   = "tty_driver_unloading"
	DriverInactive    = "tty_driver_client_inactive"
	DriverActive      = "tty_driver_client_active"
	DriverAllInactive = "tty_driver_all_clients_inactive"
)

// NewDriverClient builds the driver/client model with n clients.
func NewDriverClient(t *testing.T, n int) *DriverClient {
	t.Helper()

	clientNames := make([]string, n)
	clientDests := make([]domain.Destination, n)
	inactive := make([]string, n)
	for i := range clientNames {
		clientNames[i] = fmt.Sprintf("tty_client%d", i+1)
		clientDests[i] = domain.To(clientNames[i])
		inactive[i] = DriverInactive
	}
	clients := domain.Group(clientDests...)

	b := dsl.New()
	empty := b.Message("_")
	loaded := b.Message("tty_driver_loaded")
	request := b.Message("tty_client_request_connection")
	grant := b.Message("tty_driver_grant_connection")
	disconnect := b.Message("tty_client_disconnect")
	unloading := b.Message("tty_driver_unloading")

	noop := b.Action("noop")
	load := b.Action("tty_driver_load")
	announce := b.Action("tty_driver_loaded", domain.Send(clients, loaded))
	requestConn := b.Action("tty_client_request_connection", domain.Send(domain.To("tty_driver"), request))
	grantConn := b.Action("tty_driver_grant_connection", domain.Send(domain.ProductResponse(), grant))
	startDisconnect := b.Action("tty_client_disconnect")
	notifyDisconnect := b.Action("tty_client_disconnected", domain.Send(domain.To("tty_driver"), disconnect))
	acquire := b.Action("tty_client_acquire_connection")
	use := b.Action("tty_client_use_connection")
	unload := b.Action("tty_driver_unload", domain.Send(clients, unloading))
	unloaded := b.Action("tty_driver_unloaded")

	b.Add(DriverInactive).On(request, DriverActive, grantConn)
	b.Add(DriverActive).On(disconnect, DriverInactive, noop)
	b.Product(DriverAllInactive, empty, inactive...)
	b.Derived(DriverLoaded, DriverLoaded, DriverAllInactive).
		When(DriverAllInactive, nil, DriverUnloading, unload)

	b.Add(ClientNoDriver).Loop(noop).On(loaded, ClientDisconnected, noop)
	b.Add(ClientDisconnected).Loop(noop).
		Go(ClientWaitConnection, requestConn).
		On(unloading, ClientNoDriver, noop)
	b.Add(ClientWaitConnection).Loop(noop).
		On(grant, ClientConnected, acquire).
		On(unloading, ClientNoDriver, noop)
	b.Add(ClientConnected).Loop(use).Go(ClientDisconnecting, startDisconnect)
	b.Add(ClientDisconnecting).Loop(noop).
		Go(ClientDisconnected, notifyDisconnect).
		On(unloading, ClientNoDriver, noop)

	b.Add(DriverUnloaded).Loop(noop).Go(DriverLoading, load)
	b.Add(DriverLoading).Loop(noop).Go(DriverLoaded, announce)
	b.Add(DriverUnloading).Loop(noop).Go(DriverUnloaded, unloaded)

	g, err := b.Build()
	require.NoError(t, err)

	model := &DriverClient{Set: process.NewSet(), Graph: g}
	for _, name := range clientNames {
		p, err := model.Set.AddProcess(name, g.MustNode(ClientNoDriver))
		require.NoError(t, err)
		model.Clients = append(model.Clients, p)
	}
	model.Driver, err = model.Set.AddProcess("tty_driver", g.MustNode(DriverUnloaded))
	require.NoError(t, err)
	model.Driver.AddInboundMapping(process.ProductInbound(model.Clients, empty))
	model.Driver.AddOutboundMapping(process.ProductOutbound(model.Clients, empty))
	return model
}
