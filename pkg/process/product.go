package process

import "github.com/aretw0/interleave/pkg/domain"

// ProductInbound maps a message from the i-th sender into a product message
// carrying it in slot i and the empty message everywhere else.
func ProductInbound(senders []*Process, empty domain.Message) InboundMapper {
	return func(origin domain.Participant, msg domain.Message) domain.Message {
		if origin == nil {
			return nil
		}
		for i, sender := range senders {
			if sender.Mnemonic() != origin.Mnemonic() {
				continue
			}
			parts := make([]domain.Message, len(senders))
			for j := range parts {
				parts[j] = empty
			}
			parts[i] = msg
			return domain.NewProductMessage(parts...)
		}
		return nil
	}
}

// ProductOutbound resolves product response destinations to the receiver
// whose slot is set in the product trigger of the sending edge.
func ProductOutbound(receivers []*Process, empty domain.Message) OutboundMapper {
	return func(edge *domain.Edge, env domain.Envelope) (domain.Envelope, bool) {
		if _, ok := env.Destination.(domain.ProductResponseDestination); !ok {
			return env, false
		}
		trigger, ok := edge.Trigger.(*domain.ProductMessage)
		if !ok || trigger.Arity() != len(receivers) {
			return env, false
		}
		for i := 0; i < trigger.Arity(); i++ {
			if !domain.SameMessage(trigger.Part(i), empty) {
				return domain.Send(receivers[i], env.Message), true
			}
		}
		return env, false
	}
}
