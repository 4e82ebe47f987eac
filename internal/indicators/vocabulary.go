package indicators

// phishingVocabulary is the fixed term list scanned against normalized token
// text. Matching is case-insensitive (inputs are normalized before the scan)
// and substring-based, except that terms of three characters or fewer must
// land on word boundaries.
var phishingVocabulary = []string{
	// Urgency / fear / pressure
	"immediately", "now", "warning", "last chance", "final", "suspend",
	"limited time", "deadline", "important", "alert", "urgent", "scan",
	"qr", "activate", "breach", "security",

	// Financial incentives
	"giveaway", "airdrop", "free", "claim", "reward", "bonus", "jackpot",
	"profit", "win", "double", "instant", "rewards", "cashout", "income",
	"earn", "gift", "collect", "voucher", "code", "loot", "fee",
	"congratulations", "congratz", "chance", "withdraw", "deposit",
	"redeem", "get", "promo", "limited", "lend", "swap", "bounty",

	// Links and fake interfaces
	"url", "login", "login page", "dashboard", "connect", "connect wallet",
	"verify", "access", "restore", "check", "wallet", "official", "dapp",
	"bridge", "visit", "support", "join",
}
