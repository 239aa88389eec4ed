// Package browser drives the reservation site through Playwright.
//
// A Session wraps one browser, context and page. Two adapters sit on top of
// the page:
//
//   - PageReader reads the reservation list, facility name and schedule image
//     for the scraper.
//   - PageAgent answers AUTOFILL and TRIGGER_REQUEST_BUTTON messages by
//     filling the reservation form and pressing its request button.
//
// Both adapters talk to the page through the Driver interface so they can be
// exercised without a browser.
//
// # Example Usage
//
//	manager := browser.NewSessionManager()
//	if err := manager.Initialize(); err != nil {
//	    return err
//	}
//	defer manager.Shutdown()
//
//	session, err := manager.StartSession("labtime", browser.SessionOptions{Headless: true})
//	err = session.Navigate(url, browser.NavigateOptions{WaitUntil: "load"})
//
//	page, err := browser.NewPageReader(session).ReadPage(ctx)
package browser
