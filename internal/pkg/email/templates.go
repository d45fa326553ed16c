package email

// CouponAnnouncementTemplate is sent to eligible customers when a coupon
// with email notification enabled is published.
const CouponAnnouncementTemplate = `
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
	<h2>A new offer is waiting for you</h2>
	<p>Hi {{.CustomerName}},</p>
	<p>Use code <strong>{{.Code}}</strong> on your next order to get {{.DiscountText}}.</p>
	{{if .MinimumOrderAmount}}<p>Valid on orders over {{.MinimumOrderAmount}}.</p>{{end}}
	<p>Offer ends {{.EndDate}}.</p>
</div>
`

// RewardRedeemedTemplate is sent as a receipt after a loyalty reward redemption.
const RewardRedeemedTemplate = `
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
	<h2>Reward redeemed</h2>
	<p>Hi {{.CustomerName}},</p>
	<p>You redeemed <strong>{{.RewardName}}</strong> for {{.PointsUsed}} points.</p>
	<p>Your remaining balance is {{.RemainingPoints}} points.</p>
</div>
`
