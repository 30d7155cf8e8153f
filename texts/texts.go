package texts

var Register_usage = "Please provide your X profile link. Example: `!register https://x.com/username`"
var Invalid_link = "Invalid link! Example: `https://x.com/username`"
var Already_registered = "%s, already registered with: %s"
var Registered_ok = "%s, your X link has been registered: %s"
var Blacklisted_register = "You are blacklisted and cannot register."
var Not_registered_self = "%s, you are not registered."
var Not_registered_other = "%s is not registered."
var Unregistered_self = "%s, you have been unregistered successfully."
var Unregistered_other = "%s has been unregistered by %s."
var No_permission = "You don't have permission to do that."
var No_eligible_users = "No eligible users available for this space."
var Raffle_archived = "This space is archived; pick a new name."
var Winners_title = "Winners - %s (Space)"
var Picks_reset = "Picks reset. All users are available for the next space."
var Always_usage = "Usage: `!always_add @member` / `!always_remove @member`"
var Always_added = "%s added to always-pick list."
var Always_removed = "%s removed."
var Always_not_listed = "%s is not on the always-pick list."
var Always_empty = "No users in always-pick list."
var Always_header = "Always-pick list:\n"
var Blacklist_usage = "Usage: `!blacklist @member` / `!unblacklist @member`"
var Blacklisted_ok = "%s has been blacklisted."
var Unblacklisted_ok = "%s removed from blacklist."
var Blacklist_empty = "No users are currently blacklisted."
var Blacklist_header = "Blacklisted users:\n"
var No_users = "No users registered yet."
var No_active_raffles = "No active spaces available."
var Active_header = "Active spaces:\n"
var No_archived_raffles = "No archived spaces yet."
var Archived_header = "Archived spaces:\n"
var No_winners = "No winners found in **%s**."
var Export_usage = "Usage: `!export <space> <png|xlsx|pdf>`"
var Export_unknown_format = "Unknown export format."
var Export_excel_admins = "Only admins can export Excel."
var Db_reset = "Database has been reset (all users, raffles, stats cleared)."
var Raffles_reset = "Raffles and stats have been reset. Registered users remain."
var No_wins = "No wins yet."
var Wins_header = "Your space wins:\n"
var Pick_usage = "Usage: `!pick <space> <number>`"
var Hello = "Hello %s!"
var Keepalive = "Bot is alive and running!"
