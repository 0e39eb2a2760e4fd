// Package notify builds, sends and updates native Android notifications.
//
// A Registry hands out one Manager per host surface. The Manager creates
// Builders, which accumulate a Config fluently and send it through the
// injected Backend:
//
//	reg := notify.NewRegistry(backend, notify.WithLogger(logger))
//	mgr, err := reg.Manager(ctx, host)
//	if err != nil {
//		return err
//	}
//	n, err := mgr.Create("Download", "Starting").
//		WithProgress(0, 100).
//		AddButton("Cancel", onCancel).
//		Send(ctx, notify.SendOptions{})
//	if err != nil {
//		return err
//	}
//	err = n.UpdateProgress(ctx, 50, notify.WithMessage("50%"))
//
// Every notification has exactly one Style. Style-specific builder calls
// switch the style and the last call wins; SetLargeIcon and SetBigPicture
// together produce StyleBothImages regardless of order.
//
// Builders and Notifications are not safe for concurrent use. Confine each
// one to the goroutine running the UI event loop.
package notify
