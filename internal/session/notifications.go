package session

import "github.com/premiumclub/portal/internal/domain"

// The read flag lives in session-scoped storage keyed per customer, so it
// resets when the process ends or another customer logs in.
func notifKey(customerID string) string {
	return "notif_read_" + customerID
}

// NotificationUnread reports whether the package notification badge should
// show: there is a package and this customer has not dismissed it during the
// current session.
func (c *Controller) NotificationUnread() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.state.Status != domain.StatusAuthenticated || c.state.Profile == nil {
		return false
	}
	if c.state.Profile.WelcomePackage == nil {
		return false
	}
	read, _ := c.flags.Get(notifKey(c.state.Profile.ID))
	return read != "1"
}

// MarkNotificationRead dismisses the badge for the current customer.
func (c *Controller) MarkNotificationRead() {
	c.mu.RLock()
	var id string
	if c.state.Status == domain.StatusAuthenticated && c.state.Profile != nil {
		id = c.state.Profile.ID
	}
	c.mu.RUnlock()

	if id != "" {
		_ = c.flags.Set(notifKey(id), "1")
	}
}
