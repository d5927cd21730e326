package world

import "sort"

// sessionRegistry tracks connected agents and their outbound snapshot
// channels, and owns the disconnect/eviction policy. It is mutated only from
// the world loop goroutine (joins and leaves arrive over channels), so it
// needs no locking of its own.
type sessionRegistry struct {
	clients map[string]*clientSession

	// disconnected maps agent id -> tick the session dropped. The agent
	// entity keeps simulating until evictAfterTicks have passed.
	disconnected map[string]uint64
}

type clientSession struct {
	Out chan []byte
}

func newSessionRegistry() *sessionRegistry {
	return &sessionRegistry{
		clients:      map[string]*clientSession{},
		disconnected: map[string]uint64{},
	}
}

func (r *sessionRegistry) register(agentID string, out chan []byte) {
	delete(r.disconnected, agentID)
	if out == nil {
		return
	}
	r.clients[agentID] = &clientSession{Out: out}
}

func (r *sessionRegistry) unregister(agentID string, nowTick uint64) {
	if _, ok := r.clients[agentID]; !ok {
		return
	}
	delete(r.clients, agentID)
	r.disconnected[agentID] = nowTick
}

func (r *sessionRegistry) session(agentID string) *clientSession {
	return r.clients[agentID]
}

func (r *sessionRegistry) clientCount() int { return len(r.clients) }

// evictable returns agents whose sessions dropped more than after ticks ago,
// sorted so eviction order is deterministic.
func (r *sessionRegistry) evictable(nowTick, after uint64) []string {
	var ids []string
	for id, since := range r.disconnected {
		if nowTick-since >= after {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

func (r *sessionRegistry) drop(agentID string) {
	delete(r.clients, agentID)
	delete(r.disconnected, agentID)
}

// send delivers b to the agent's outbound channel without ever blocking the
// world loop. If the channel is full the oldest queued message is dropped so
// a slow or dead client only loses its own stale snapshots.
func (r *sessionRegistry) send(agentID string, b []byte) {
	cl := r.clients[agentID]
	if cl == nil {
		return
	}
	sendLatest(cl.Out, b)
}

func sendLatest(ch chan []byte, b []byte) {
	select {
	case ch <- b:
		return
	default:
	}
	// Drop one.
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- b:
	default:
	}
}
