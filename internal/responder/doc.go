// Package responder runs the SSDP responder engine.
//
// A Responder owns one transport and three goroutines:
//   - the receiver reads datagrams, parses them and queues the requests;
//   - the scheduler multicasts ssdp:alive after a settle delay and then once
//     per announce period;
//   - the dispatcher answers queued M-SEARCH requests one at a time.
//
// The goroutines share only the request queue and a running flag. Shutdown
// clears the flag, waits for all three to finish, multicasts the goodbye
// announcement and closes the transport, in that order.
//
// # Usage Example
//
//	r, err := responder.New(responder.DefaultConfig(), descriptors)
//	if err != nil {
//	    return err
//	}
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
//	defer stop()
//	return r.Serve(ctx)
package responder
