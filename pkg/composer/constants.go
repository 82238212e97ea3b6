package composer

// Fixed institutional lines.
const (
	Department = "Departamento de Ingeniería de Sistemas y Computación"
	University = "Universidad Católica del Norte"
	Address    = "Av. Angamos 0610, Antofagasta"
)

// Hosted image assets. Mail clients resolve them when the signature is displayed.
const (
	LogoURL        = "https://i.imgur.com/sC4luNO.png"
	LogoAlt        = "Logo Universidad Católica del Norte"
	SmallLogoURL   = "https://i.imgur.com/mmdOunR.png"
	SmallLogoAlt   = "UCN Logo"
	ScholarIconURL = "https://i.imgur.com/visHiHK.png"
	LinkedInIcon   = "https://i.imgur.com/2VBQAgT.png"
	ORCIDIconURL   = "https://i.imgur.com/to2V1e9.png"
	WebsiteIconURL = "https://i.imgur.com/HZhe06X.png"
	CiaraBadgeURL  = "https://i.imgur.com/LWlb8oT.png"
)

// Icon and badge sizes in pixels.
const (
	iconSize      = 18
	smallLogoSize = 14
)

// Inline styles.
const (
	fontFamily = "font-family: Arial, Helvetica, sans-serif;"

	styleTable     = "border-collapse: collapse;"
	styleLogoCell  = "padding-right: 24px; vertical-align: top;"
	styleTextCell  = "vertical-align: top;"
	styleName      = fontFamily + " font-size: 18px; font-weight: bold; color: #000000; line-height: 1.25; padding-bottom: 4px;"
	stylePosition  = fontFamily + " font-size: 16px; color: #1f2937; line-height: 1.25; padding-bottom: 4px;"
	styleInstitute = fontFamily + " font-size: 14px; color: #6b7280; line-height: 1.25; padding-bottom: 4px;"
	styleContact   = fontFamily + " font-size: 14px; color: #1f2937; line-height: 1.25; padding-bottom: 4px;"
	styleAnchor    = "color: #1d4ed8; text-decoration: underline;"
	styleSocialRow = "padding-top: 8px; line-height: 0;"
	styleIconLink  = "display: inline-block; line-height: 0; margin-right: 8px; text-decoration: none;"
	styleIcon      = "width: 18px; height: 18px; display: inline-block; border-radius: 3px; background: #fff; border: 0;"
	styleSmallLogo = "width: 14px; height: 14px; vertical-align: middle; margin-right: 4px; border: 0;"
	styleRuleCell  = "padding-top: 16px;"
	styleRule      = "margin: 0; border: none; border-top: 1px solid #1e3a8a;"
)
